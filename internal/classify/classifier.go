package classify

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"linkarr/internal/textutil"
)

// Series is the classification result for a show folder name.
type Series struct {
	// Name is the normalized series name: title case, dots replaced by
	// spaces, season markers and parentheticals stripped.
	Name string
	// Year is the release year when a 4-digit year-like token appears in the
	// title segment, otherwise empty.
	Year string
	// SeasonHint is the season number carried by the folder name itself,
	// or 0 when absent.
	SeasonHint int
}

// ErrNoSeasonAnchor is returned when a name carries no season marker followed
// by a resolution marker. Without that anchor the title cannot be separated
// from release metadata, so classification refuses to guess.
var ErrNoSeasonAnchor = errors.New("no season/resolution anchor in name")

// ErrEmptyName is returned when stripping release metadata leaves nothing.
var ErrEmptyName = errors.New("empty series name after normalization")

// anchorPattern captures everything before a season marker, requiring a
// resolution marker (480p/720p/1080p/2160p style) somewhere after it.
var anchorPattern = regexp.MustCompile(`(?i)^(.*?)[. _-]*\bS(\d{1,2})(?:E\d{1,3})?\b.*\b\d{3,4}p\b`)

// yearPattern matches 4-digit year-like tokens. The last occurrence wins; a
// year embedded mid-title is still treated as the release year, which is a
// known heuristic limitation.
var yearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

var (
	parentheticalPattern = regexp.MustCompile(`\([^)]*\)`)
	seasonTextPattern    = regexp.MustCompile(`(?i)\bseason[. _-]?\d{1,2}\b`)
	loneSeasonPattern    = regexp.MustCompile(`(?i)\bS\d{1,2}\b`)
)

// Classify parses a source folder name into a Series.
func Classify(name string) (Series, error) {
	match := anchorPattern.FindStringSubmatch(name)
	if match == nil {
		return Series{}, fmt.Errorf("classify %q: %w", name, ErrNoSeasonAnchor)
	}
	title := match[1]

	var seasonHint int
	fmt.Sscanf(match[2], "%d", &seasonHint)

	year := ""
	if years := yearPattern.FindAllString(title, -1); len(years) > 0 {
		year = years[len(years)-1]
	}

	normalized := normalizeTitle(title)
	if normalized == "" {
		return Series{}, fmt.Errorf("classify %q: %w", name, ErrEmptyName)
	}

	return Series{Name: normalized, Year: year, SeasonHint: seasonHint}, nil
}

func normalizeTitle(title string) string {
	title = parentheticalPattern.ReplaceAllString(title, " ")
	title = seasonTextPattern.ReplaceAllString(title, " ")
	title = loneSeasonPattern.ReplaceAllString(title, " ")
	title = strings.ReplaceAll(title, ".", " ")
	title = strings.Trim(title, `"'`)
	title = textutil.CollapseWhitespace(title)
	title = strings.Trim(title, "- ")
	if title == "" {
		return ""
	}
	// Capitalize the first letter of each token and leave the rest alone,
	// so acronyms like WEB or TNG survive.
	return cases.Title(language.Und, cases.NoLower).String(title)
}
