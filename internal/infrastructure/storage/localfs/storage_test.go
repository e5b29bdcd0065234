package localfs

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Save(context.Background(), "doc-1_bol.pdf", strings.NewReader("pdf bytes")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	r, err := store.Open(context.Background(), "doc-1_bol.pdf")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "pdf bytes" {
		t.Errorf("read %q, want the saved bytes back", data)
	}
}

func TestOpenMissingKeyIsNotFound(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	_, err = store.Open(context.Background(), "missing.pdf")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("err = %v, want ErrDocumentNotFound", err)
	}
}

func TestSaveStripsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Save(context.Background(), "../../escape.pdf", strings.NewReader("x")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := store.Open(context.Background(), "escape.pdf"); err != nil {
		t.Errorf("traversal keys must collapse to their base name: %v", err)
	}
}
