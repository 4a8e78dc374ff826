package loader

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileSource_Load(t *testing.T) {
	// Create temp file
	dir := t.TempDir()
	path := filepath.Join(dir, "verses.txt")
	os.WriteFile(path, []byte("Sei luce\r\nNotte\n"), 0644)

	source := NewFileSource(path)
	raw, err := source.Load(context.Background())

	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if raw != "Sei luce\r\nNotte\n" {
		t.Errorf("unexpected content: %q", raw)
	}
	if source.Describe() != path {
		t.Errorf("unexpected description: %s", source.Describe())
	}
}

func TestFileSource_NonexistentFile(t *testing.T) {
	_, err := NewFileSource("/nonexistent/verses.txt").Load(context.Background())
	if err == nil {
		t.Error("should error on nonexistent file")
	}
}

func TestFileSource_RejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "verses.txt")
	content := append(bytes.Repeat([]byte("verso lungo\n"), maxCorpusBytes/12+1), []byte("ULTIMO VERSO")...)
	os.WriteFile(path, content, 0644)

	raw, err := NewFileSource(path).Load(context.Background())
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if raw != "" {
		t.Errorf("no partial content should be returned, got %d bytes", len(raw))
	}
}

func TestFileSource_AcceptsFileAtLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "verses.txt")
	os.WriteFile(path, bytes.Repeat([]byte("x"), maxCorpusBytes), 0644)

	raw, err := NewFileSource(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(raw) != maxCorpusBytes {
		t.Errorf("expected %d bytes, got %d", maxCorpusBytes, len(raw))
	}
}

func TestHTTPSource_Load(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/frasi.txt" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("uno\ndue\n"))
	}))
	defer server.Close()

	raw, err := NewHTTPSource(server.URL+"/frasi.txt", time.Second).Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if raw != "uno\ndue\n" {
		t.Errorf("unexpected content: %q", raw)
	}
}

func TestHTTPSource_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := NewHTTPSource(server.URL, time.Second).Load(context.Background()); err == nil {
		t.Error("should error on 404")
	}
}

func TestHTTPSource_RejectsOversizedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte("verso\n"), maxCorpusBytes/6+1))
	}))
	defer server.Close()

	_, err := NewHTTPSource(server.URL, 5*time.Second).Load(context.Background())
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestIsRemote(t *testing.T) {
	cases := map[string]bool{
		"https://example.org/frasi.txt": true,
		"http://localhost/frasi.txt":    true,
		"frasi.txt":                     false,
		"/srv/data/frasi.txt":           false,
	}
	for location, want := range cases {
		if got := IsRemote(location); got != want {
			t.Errorf("IsRemote(%q) = %v, want %v", location, got, want)
		}
	}
}
