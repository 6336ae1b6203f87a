package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"linkarr/internal/classify"
	"linkarr/internal/index"
	"linkarr/internal/logging"
	"linkarr/internal/textutil"
)

// Resolver finds or allocates the destination series folder for a classified
// series. Resolve is serialized internally so that concurrent entries for the
// same series yield exactly one folder.
type Resolver struct {
	mu sync.Mutex

	store       *index.Store
	libraryRoot string
	partTokens  bool
	dryRun      bool
	logger      *slog.Logger
}

// Option customizes resolver behavior.
type Option func(*Resolver)

// WithPartSpacingVariants toggles the P/Part spacing tolerance in the alias
// pattern.
func WithPartSpacingVariants(enabled bool) Option {
	return func(r *Resolver) { r.partTokens = enabled }
}

// WithDryRun suppresses directory creation during allocation.
func WithDryRun(enabled bool) Option {
	return func(r *Resolver) { r.dryRun = enabled }
}

// New constructs a resolver over the given index store and library root.
func New(store *index.Store, libraryRoot string, logger *slog.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		store:       store,
		libraryRoot: libraryRoot,
		partTokens:  true,
		logger:      logging.NewComponentLogger(logger, "resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// trailingCopySuffix matches the " -N" suffixes download clients append to
// colliding folder names.
var trailingCopySuffix = regexp.MustCompile(`\s-\d+$`)

// Resolve returns the destination folder for the series and whether it was
// newly allocated.
func (r *Resolver) Resolve(ctx context.Context, series classify.Series) (string, bool, error) {
	logger := logging.WithContext(ctx, r.logger)

	name := textutil.SanitizeFileName(series.Name)
	name = strings.TrimSpace(trailingCopySuffix.ReplaceAllString(name, ""))
	if name == "" {
		return "", false, fmt.Errorf("resolve: series name %q sanitizes to nothing", series.Name)
	}
	candidate := filepath.Join(r.libraryRoot, name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.store.HasFolder(candidate) {
		logger.Debug("exact folder match", logging.String("folder", candidate))
		return candidate, false, nil
	}

	pattern, err := aliasPattern(name, r.partTokens)
	if err != nil {
		return "", false, fmt.Errorf("resolve: alias pattern for %q: %w", name, err)
	}
	for _, folder := range r.store.Folders() {
		if pattern.MatchString(filepath.Base(folder)) {
			logger.Info("fuzzy folder match",
				logging.String("series", series.Name),
				logging.String("folder", folder))
			return folder, false, nil
		}
	}

	if !r.dryRun {
		if err := os.MkdirAll(candidate, 0o755); err != nil {
			return "", false, fmt.Errorf("resolve: create folder: %w", err)
		}
	}
	if err := r.store.RecordNewFolder(candidate); err != nil {
		return "", false, err
	}
	logger.Info("allocated series folder", logging.String("folder", candidate))
	return candidate, true, nil
}

// yearToken matches embedded 4-digit year tokens, which are dropped from the
// alias pattern so "My Show 2019" still folds into "My Show".
var yearToken = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

// aliasPattern builds the case-insensitive fuzzy pattern for a normalized
// name: internal whitespace becomes "anything", year tokens are removed, and
// a lone P token optionally tolerates Part/P spacing drift.
func aliasPattern(name string, partTokens bool) (*regexp.Regexp, error) {
	cleaned := yearToken.ReplaceAllString(name, " ")
	tokens := strings.Fields(cleaned)
	if len(tokens) == 0 {
		tokens = strings.Fields(name)
	}

	parts := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if partTokens && isPartToken(token) {
			parts = append(parts, `p(?:art)?\b\.?`)
			continue
		}
		parts = append(parts, regexp.QuoteMeta(token))
	}

	return regexp.Compile(`(?i)^` + strings.Join(parts, `.*`))
}

// isPartToken reports whether a title token is one of the "Part" spellings
// that release names abbreviate inconsistently.
func isPartToken(token string) bool {
	switch strings.ToLower(strings.TrimSuffix(token, ".")) {
	case "p", "part":
		return true
	}
	return false
}
