package httpserver

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"homeshare/internal/fsutil"
)

// handleZip streams a zip of one file or directory subtree:
// GET /api/zip?path=<rel>
func (s *Server) handleZip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rel := fsutil.CleanRelPath(r.URL.Query().Get("path"))
	if rel == "" {
		http.Error(w, "missing path", http.StatusBadRequest)
		return
	}
	abs, err := fsutil.JoinWithinRoot(s.cfg.Root, rel)
	if err != nil {
		http.Error(w, "bad path", http.StatusBadRequest)
		return
	}
	st, err := os.Stat(abs)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	name := filepath.Base(rel)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".zip"))
	zw := zip.NewWriter(w)
	defer zw.Close()

	if !st.IsDir() {
		addZipFile(zw, abs, name, st.ModTime())
		return
	}

	ctx := r.Context()
	_ = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		relp, err := filepath.Rel(abs, p)
		if err != nil {
			return nil
		}
		mod := time.Now()
		if info, err := d.Info(); err == nil {
			mod = info.ModTime()
		}
		addZipFile(zw, p, filepath.ToSlash(filepath.Join(name, relp)), mod)
		return nil
	})
}

func addZipFile(zw *zip.Writer, absPath, zipPath string, mod time.Time) {
	wr, err := zw.CreateHeader(&zip.FileHeader{
		Name:     zipPath,
		Method:   zip.Deflate,
		Modified: mod,
	})
	if err != nil {
		return
	}
	f, err := os.Open(absPath)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = io.Copy(wr, f)
}
