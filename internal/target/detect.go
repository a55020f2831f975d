package target

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ProjectFilePattern selects the project metadata file in the root directory.
const ProjectFilePattern = "*.csproj"

// ItemElement is the project file element that declares a stylesheet to watch.
const ItemElement = "TailwindCss"

var (
	ErrNoProjectFile  = errors.New("no project file found")
	ErrMissingInclude = errors.New("missing Include attribute")
)

// EntryError reports a single project file entry that could not become a target.
type EntryError struct {
	Index int // zero-based position among the declared entries
	Line  int
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %d (line %d): %v", e.Index, e.Line, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// FindProjectFile returns the first project file, in lexical order, directly
// inside root. Subdirectories are not searched.
func FindProjectFile(root string) (string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), ProjectFilePattern, doublestar.WithFilesOnly())
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoProjectFile, root)
	}
	slices.Sort(matches)
	return filepath.Join(root, matches[0]), nil
}

// ParseProject reads every ItemElement from r in document order. Entries
// without an Include attribute are reported in the returned EntryErrors and
// skipped; the remaining entries are still returned. The error result is
// reserved for an unreadable or malformed document.
func ParseProject(r io.Reader) ([]WatchTarget, []*EntryError, error) {
	dec := xml.NewDecoder(r)
	var (
		targets []WatchTarget
		bad     []*EntryError
		index   int
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok || !strings.EqualFold(se.Name.Local, ItemElement) {
			continue
		}
		line, _ := dec.InputPos()
		var include, output string
		for _, a := range se.Attr {
			switch {
			case strings.EqualFold(a.Name.Local, "Include"):
				include = strings.TrimSpace(a.Value)
			case strings.EqualFold(a.Name.Local, "Output"):
				output = strings.TrimSpace(a.Value)
			}
		}
		if include == "" {
			bad = append(bad, &EntryError{Index: index, Line: line, Err: ErrMissingInclude})
		} else {
			targets = append(targets, WatchTarget{Input: include, Output: output})
		}
		index++
	}
	return targets, bad, nil
}

// ParseProjectFile is ParseProject on the file at path.
func ParseProjectFile(path string) ([]WatchTarget, []*EntryError, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()
	return ParseProject(f)
}
