package httpserver

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"homeshare/internal/fsutil"
	"homeshare/internal/upload"
)

// serveListing renders an HTML listing page for directory paths. Anything
// that is not a directory is declined so the file route can take over.
func (s *Server) serveListing(w http.ResponseWriter, r *http.Request) Outcome {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return Declined()
	}
	rel := fsutil.CleanRelPath(r.URL.Path)
	abs, err := fsutil.JoinWithinRoot(s.cfg.Root, rel)
	if err != nil {
		http.Error(w, "bad path", http.StatusBadRequest)
		return Handled()
	}
	st, err := os.Stat(abs)
	if err != nil || !st.IsDir() {
		return Declined()
	}

	body, err := s.lister.List(abs)
	if err != nil {
		return Failed(err)
	}
	page, err := renderPage(rel, body)
	if err != nil {
		return Failed(err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, page)
	return Handled()
}

// serveFile serves raw file bytes with an inferred content type and Range
// support. Dotfiles are served like anything else. Missing paths are
// declined, which ends the chain in a 404.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) Outcome {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return Declined()
	}
	rel := fsutil.CleanRelPath(r.URL.Path)
	abs, err := fsutil.JoinWithinRoot(s.cfg.Root, rel)
	if err != nil {
		return Declined()
	}
	st, err := os.Stat(abs)
	if err != nil || st.IsDir() {
		return Declined()
	}

	f, err := os.Open(abs)
	if err != nil {
		return Failed(err)
	}
	defer f.Close()

	if ct := contentTypeForName(st.Name()); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	http.ServeContent(w, r, st.Name(), st.ModTime(), f)
	return Handled()
}

// multipartPart adapts mime/multipart's Part to the upload engine.
type multipartPart struct {
	*multipart.Part
}

func (p multipartPart) ContentType() string {
	return p.Header.Get("Content-Type")
}

// serveUpload accepts a multipart POST and persists its first file part into
// the directory named by the request path. The failure taxonomy is ordered:
// missing boundary, unparseable body, empty body, missing filename, then
// save-time classification.
func (s *Server) serveUpload(w http.ResponseWriter, r *http.Request) Outcome {
	if r.Method != http.MethodPost {
		return Declined()
	}

	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	boundary := params["boundary"]
	if err != nil || boundary == "" {
		http.Error(w, "Content-Type: form-data without boundary", http.StatusBadRequest)
		return Handled()
	}

	mr := multipart.NewReader(r.Body, boundary)
	part, err := mr.NextPart()
	if errors.Is(err, io.EOF) {
		http.Error(w, "Request body don't include any entry", http.StatusBadRequest)
		return Handled()
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return Handled()
	}
	defer part.Close()

	name := part.FileName()
	if name == "" {
		http.Error(w, "Request body don't include filename", http.StatusBadRequest)
		return Handled()
	}
	name = filepath.Base(filepath.FromSlash(name))

	rel := fsutil.CleanRelPath(r.URL.Path)
	dst, err := fsutil.JoinWithinRoot(s.cfg.Root, path.Join(rel, name))
	if err != nil {
		http.Error(w, "bad path", http.StatusBadRequest)
		return Handled()
	}

	// Only the first entry is processed; the rest of the body is ignored.
	res := s.saver.Save(multipartPart{part}, dst, 0)
	switch res.Outcome {
	case upload.Complete:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "File saved")
	case upload.Partial:
		http.Error(w, partialMessage(res), http.StatusInternalServerError)
	default:
		http.Error(w, res.Err.Error(), http.StatusInternalServerError)
	}
	return Handled()
}

func partialMessage(res upload.SaveResult) string {
	switch res.Reason {
	case upload.CountLimit:
		return "The count limit for files in the request was hit."
	case upload.SizeLimit:
		return "The size limit for an individual file was hit."
	case upload.EncodingFault:
		return "UTF convert err"
	default:
		if res.Err != nil {
			return res.Err.Error()
		}
		return "upload failed"
	}
}

// contentTypeForName infers a content type from the file extension, with
// fallbacks for systems with sparse mime tables.
func contentTypeForName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mkv":
		return "video/x-matroska"
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	case ".pdf":
		return "application/pdf"
	case ".txt", ".log", ".md", ".json", ".yaml", ".yml", ".toml", ".ini", ".cfg", ".conf", ".go", ".py", ".rs", ".sh", ".css", ".html":
		return "text/plain; charset=utf-8"
	case ".zip":
		return "application/zip"
	case ".tar":
		return "application/x-tar"
	case ".gz":
		return "application/gzip"
	default:
		return ""
	}
}
