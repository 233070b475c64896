package listing

import (
	"fmt"
	"html"
	"io/fs"
	"net/url"
	"strconv"
	"time"
)

// EntryType tags a directory child as a file or a directory. Symlinks are
// classified as directories without being followed; the link target's real
// type is a known approximation the listing does not resolve.
type EntryType int

const (
	File EntryType = iota
	Directory
)

func (t EntryType) String() string {
	if t == Directory {
		return "directory"
	}
	return "file"
}

// timeLayout is the display format for file modification times.
const timeLayout = "2006-01-02 15:04:05 -07:00"

// EntryDetail describes one child of a listed directory. Size and Modified
// are set for files only, and stay nil when the entry's metadata cannot be
// read; a nil field renders as an empty string.
type EntryDetail struct {
	Name     string
	RelPath  string // slash-form path relative to the serving root
	Type     EntryType
	Size     *int64
	Modified *time.Time
}

// FromDirEntry classifies one raw directory entry. relDir is the parent's
// path relative to the serving root ("" for the root itself).
func FromDirEntry(de fs.DirEntry, relDir string) EntryDetail {
	rel := de.Name()
	if relDir != "" {
		rel = relDir + "/" + de.Name()
	}
	e := EntryDetail{Name: de.Name(), RelPath: rel, Type: File}
	if de.IsDir() || de.Type()&fs.ModeSymlink != 0 {
		e.Type = Directory
		return e
	}
	if info, err := de.Info(); err == nil {
		size := info.Size()
		mod := info.ModTime().Local()
		e.Size = &size
		e.Modified = &mod
	}
	return e
}

// HTML renders the entry as one listing fragment. The link target is the
// entry's path below the serving root so the browser resolves it against
// the server, and the CSS class is keyed by the entry type.
func (e EntryDetail) HTML() string {
	size := ""
	if e.Size != nil {
		size = strconv.FormatInt(*e.Size, 10)
	}
	date := ""
	if e.Modified != nil {
		date = e.Modified.Format(timeLayout)
	}
	href := (&url.URL{Path: "/" + e.RelPath}).EscapedPath()
	name := html.EscapeString(e.Name)
	return fmt.Sprintf(
		`<li><a href="%s" class="icon icon-%s" title="%s"><span class="name">%s</span><span class="size">%s</span><span class="date">%s</span></a></li>`,
		href, e.Type, name, name, size, date)
}
