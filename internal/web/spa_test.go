package web

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html":           {Data: []byte("<html>app shell</html>")},
		"static/js/main.js":    {Data: []byte("console.log('hi')")},
		"static/css/main.css":  {Data: []byte("body{}")},
		"favicon.ico":          {Data: []byte("ico")},
		"static/js/vendor.map": {Data: []byte("{}")},
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.Path = path
	h.ServeHTTP(rr, req)
	return rr
}

func TestSPA_ServesExistingFile(t *testing.T) {
	h := NewSPAFS(testFS(), DefaultFallback)

	rr := get(t, h, "/static/js/main.js")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if rr.Body.String() != "console.log('hi')" {
		t.Errorf("body = %q", rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "javascript") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestSPA_UnknownPathServesFallback(t *testing.T) {
	h := NewSPAFS(testFS(), DefaultFallback)

	for _, p := range []string{"/", "/profile", "/resume/builder", "/static/js/missing.js", "/static"} {
		rr := get(t, h, p)
		if rr.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", p, rr.Code)
			continue
		}
		if rr.Body.String() != "<html>app shell</html>" {
			t.Errorf("%s: body = %q, want fallback", p, rr.Body.String())
		}
	}
}

func TestSPA_MissingFallback404(t *testing.T) {
	h := NewSPAFS(fstest.MapFS{"app.js": {Data: []byte("x")}}, DefaultFallback)

	if rr := get(t, h, "/somewhere"); rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestSPA_RejectsNonGet(t *testing.T) {
	h := NewSPAFS(testFS(), DefaultFallback)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/index.html", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rr.Code)
	}
}

// TestSPA_Traversal places a secret next to the asset root and checks no
// crafted path reaches it.
func TestSPA_Traversal(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "build")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "index.html"), []byte("shell"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(base, "secret.txt"), []byte("TOP SECRET"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := NewSPA(root)
	for _, p := range []string{
		"/../secret.txt",
		"/static/../../secret.txt",
		"/..%2fsecret.txt",
		"/..\\secret.txt",
		"//../secret.txt",
	} {
		rr := get(t, h, p)
		if strings.Contains(rr.Body.String(), "TOP SECRET") {
			t.Errorf("%s: leaked file outside root", p)
		}
	}

	if rr := get(t, h, "/index.html"); rr.Body.String() != "shell" {
		t.Errorf("index.html body = %q", rr.Body.String())
	}
}
