package reconcile

import (
	"fmt"
	"os"
	"path/filepath"

	"linkarr/internal/fileutil"
)

// Kind distinguishes the two source entry shapes.
type Kind int

const (
	// KindFolder is a show folder containing one or more video files.
	KindFolder Kind = iota
	// KindFile is a single video file with an explicit target filename;
	// Path holds the containing folder.
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindFolder:
		return "folder"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// SourceEntry is one unit of reconciliation work under the source root.
type SourceEntry struct {
	// Path is the absolute folder path (the show folder in folder mode, the
	// containing directory in file mode).
	Path string
	Kind Kind
	// TargetFile is the absolute explicit target for KindFile entries.
	TargetFile string
}

// Display returns the path an operator would recognize the entry by.
func (e SourceEntry) Display() string {
	if e.Kind == KindFile {
		return e.TargetFile
	}
	return e.Path
}

// State tracks an entry through the reconciliation pipeline.
type State int

const (
	StatePending State = iota
	StateClassifying
	StateResolving
	StateLinkChecking
	StateSkipped
	StateLinked
	StateErrored
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateClassifying:
		return "classifying"
	case StateResolving:
		return "resolving"
	case StateLinkChecking:
		return "link-checking"
	case StateSkipped:
		return "skipped"
	case StateLinked:
		return "linked"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of one entry.
type Outcome struct {
	Entry         SourceEntry
	State         State
	Linked        int
	AlreadyLinked int
	SkippedFiles  int
	Archives      int
	Err           error
}

// Summary aggregates the outcomes of a full run.
type Summary struct {
	Entries       int
	Linked        int
	AlreadyLinked int
	SkippedFiles  int
	Archives      int
	Errored       int
}

func (s *Summary) add(o Outcome) {
	s.Entries++
	s.Linked += o.Linked
	s.AlreadyLinked += o.AlreadyLinked
	s.SkippedFiles += o.SkippedFiles
	s.Archives += o.Archives
	if o.State == StateErrored {
		s.Errored++
	}
}

// DiscoverEntries lists the source root and builds the work list: child
// directories become folder entries; loose video files and archive remnants
// become file entries. Anything else (nfo, txt, samples without a video
// extension) is ignored.
func DiscoverEntries(sourceRoot string) ([]SourceEntry, error) {
	children, err := os.ReadDir(sourceRoot)
	if err != nil {
		return nil, fmt.Errorf("list source root: %w", err)
	}

	entries := make([]SourceEntry, 0, len(children))
	for _, child := range children {
		path := filepath.Join(sourceRoot, child.Name())
		if child.IsDir() {
			entries = append(entries, SourceEntry{Path: path, Kind: KindFolder})
			continue
		}
		if fileutil.IsVideoFile(child.Name()) || fileutil.IsMultiPartArchive(child.Name()) {
			entries = append(entries, SourceEntry{
				Path:       sourceRoot,
				Kind:       KindFile,
				TargetFile: path,
			})
		}
	}
	return entries, nil
}

// EntryForPath builds a single entry from an explicit invocation argument:
// a directory is processed as a show folder, a file as an explicit target
// with its parent as the folder.
func EntryForPath(path string) (SourceEntry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return SourceEntry{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return SourceEntry{}, fmt.Errorf("stat %s: %w", abs, err)
	}
	if info.IsDir() {
		return SourceEntry{Path: abs, Kind: KindFolder}, nil
	}
	return SourceEntry{
		Path:       filepath.Dir(abs),
		Kind:       KindFile,
		TargetFile: abs,
	}, nil
}
