package listing

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"homeshare/internal/fsutil"
)

// Lister builds directory listing bodies for paths under a fixed root.
// It keeps no state across calls; every listing re-reads the filesystem.
type Lister struct {
	root string // absolute
}

func NewLister(rootAbs string) *Lister {
	return &Lister{root: filepath.Clean(rootAbs)}
}

// List returns the concatenated entry fragments for absDir: a ".." parent
// link first (unless absDir is the root itself), then subdirectories, then
// files, each group in ascending byte order by name. Entries are joined
// with no separator.
func (l *Lister) List(absDir string) (string, error) {
	absDir = filepath.Clean(absDir)
	relDir, err := fsutil.RelToRoot(l.root, absDir)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if absDir != l.root {
		parentRel, err := fsutil.RelToRoot(l.root, filepath.Dir(absDir))
		if err != nil {
			return "", err
		}
		parent := EntryDetail{Name: "..", RelPath: parentRel, Type: Directory}
		b.WriteString(parent.HTML())
	}

	ents, err := os.ReadDir(absDir)
	if err != nil {
		return "", err
	}

	var dirs, files []EntryDetail
	for _, de := range ents {
		e := FromDirEntry(de, relDir)
		if e.Type == Directory {
			dirs = append(dirs, e)
		} else {
			files = append(files, e)
		}
	}
	byName := func(s []EntryDetail) {
		sort.Slice(s, func(i, j int) bool { return s[i].Name < s[j].Name })
	}
	byName(dirs)
	byName(files)

	for _, e := range dirs {
		b.WriteString(e.HTML())
	}
	for _, e := range files {
		b.WriteString(e.HTML())
	}
	return b.String(), nil
}
