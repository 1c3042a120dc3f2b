// Package web serves the prebuilt frontend bundle.
package web

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

// DefaultFallback is the document served for unmatched routes so the
// frontend router can handle them.
const DefaultFallback = "index.html"

// SPA serves files from root and answers every unknown path with the
// fallback document.
type SPA struct {
	root     fs.FS
	fallback string
}

// NewSPA serves the directory dir. Lookups go through os.DirFS, which
// refuses names containing ".." so nothing outside dir is reachable.
func NewSPA(dir string) *SPA {
	return NewSPAFS(os.DirFS(dir), DefaultFallback)
}

// NewSPAFS serves fsys, falling back to the named file.
func NewSPAFS(fsys fs.FS, fallback string) *SPA {
	return &SPA{root: fsys, fallback: fallback}
}

func (s *SPA) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if name, ok := s.resolve(r.URL.Path); ok {
		s.serveFile(w, r, name)
		return
	}
	if _, err := fs.Stat(s.root, s.fallback); err != nil {
		http.NotFound(w, r)
		return
	}
	s.serveFile(w, r, s.fallback)
}

// resolve maps a URL path to a regular file name inside root. It rejects
// anything that would leave root after cleaning.
func (s *SPA) resolve(urlPath string) (string, bool) {
	if strings.Contains(urlPath, "\x00") || strings.Contains(urlPath, "\\") {
		return "", false
	}
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" || !fs.ValidPath(name) {
		return "", false
	}
	info, err := fs.Stat(s.root, name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return name, true
}

func (s *SPA) serveFile(w http.ResponseWriter, r *http.Request, name string) {
	f, err := s.root.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	rs, ok := f.(io.ReadSeeker)
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, path.Base(name), info.ModTime(), rs)
}
