package manifest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSource(t *testing.T) {
	m := sampleManifest()
	data, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	src := &FileSource{Path: path}
	got, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.SessionID != m.SessionID {
		t.Errorf("SessionID = %q, want %q", got.SessionID, m.SessionID)
	}
	if len(got.Components) != len(m.Components) {
		t.Errorf("len(Components) = %d, want %d", len(got.Components), len(m.Components))
	}
}

func TestFileSourceMissing(t *testing.T) {
	src := &FileSource{Path: filepath.Join(t.TempDir(), "nope.json")}
	if _, err := src.Load(context.Background()); err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestHTTPSource(t *testing.T) {
	m := sampleManifest()
	data, _ := m.Encode()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	src := &HTTPSource{URL: srv.URL}
	got, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.SessionID != m.SessionID {
		t.Errorf("SessionID = %q, want %q", got.SessionID, m.SessionID)
	}
}

func TestHTTPSourceStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	src := &HTTPSource{URL: srv.URL}
	if _, err := src.Load(context.Background()); err == nil {
		t.Error("Load() expected error for status 404")
	}
}
