package httpserver

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/webdav"

	"homeshare/internal/config"
	"homeshare/internal/listing"
	"homeshare/internal/upload"
)

type Options struct {
	Config config.Config
}

// Server ties the fixed serving root to the request handlers. It holds no
// per-request state; every listing and upload works straight off the
// filesystem.
type Server struct {
	cfg    config.Config
	lister *listing.Lister
	saver  *upload.Saver

	httpServer *http.Server
}

func New(opts Options) (*Server, error) {
	if err := os.MkdirAll(opts.Config.StateDir, 0o755); err != nil {
		return nil, err
	}
	s := &Server{
		cfg:    opts.Config,
		lister: listing.NewLister(opts.Config.Root),
		saver: &upload.Saver{
			SizeLimit:  opts.Config.MaxUploadBytes,
			CountLimit: opts.Config.MaxUploadFiles,
		},
	}
	s.httpServer = &http.Server{
		Addr:         opts.Config.Addr,
		Handler:      withHeaders(logRequests(s.Handler())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// health
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})

	// Read-only WebDAV view of the tree. Mutation goes through upload only,
	// so everything but the read methods is refused.
	dav := &webdav.Handler{
		Prefix:     "/dav",
		FileSystem: webdav.Dir(s.cfg.Root),
		LockSystem: webdav.NewMemLS(),
	}
	mux.Handle("/dav/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions, "PROPFIND":
			dav.ServeHTTP(w, r)
		default:
			http.Error(w, "read-only", http.StatusMethodNotAllowed)
		}
	}))

	// thumbnails
	mux.HandleFunc("/thumb", s.handleThumb)

	// zip download of a file or directory subtree
	mux.HandleFunc("/api/zip", s.handleZip)

	// Everything else goes through the ordered route chain: directory
	// listing first, raw file serving when the listing declines, uploads
	// on POST. A request no route claims is a 404.
	mux.Handle("/", chain(s.serveListing, s.serveFile, s.serveUpload))

	return mux
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	errc := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case sig := <-quit:
		log.Printf("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// withHeaders adds basic hardening headers to every response.
func withHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// logRequests logs method, path, status and duration for every request.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		log.Printf("%s %s %d %v", r.Method, r.URL.Path, wrapped.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}
