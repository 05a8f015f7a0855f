package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-bindview/pkg/dom"
)

// LoadModel reads a YAML model fixture. An empty file yields an empty map.
func LoadModel(path string) (map[string]any, error) {
	if path == "" {
		return nil, errors.New("testsupport: model path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read model: %w", err)
	}
	out := map[string]any{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("testsupport: unmarshal model: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// MustLoadModel is LoadModel for tests.
func MustLoadModel(t *testing.T, path string) map[string]any {
	t.Helper()

	model, err := LoadModel(path)
	if err != nil {
		t.Fatalf("load model: %v", err)
	}
	return model
}

// Fragment parses markup holding a single root element.
func Fragment(t *testing.T, markup string) *html.Node {
	t.Helper()

	root, err := dom.ParseRoot(markup)
	if err != nil {
		t.Fatalf("parse fragment: %v", err)
	}
	return root
}

// Serialize renders n.
func Serialize(t *testing.T, n *html.Node) string {
	t.Helper()

	out, err := dom.Render(n)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	return out
}

// AssertHTML compares the serialised form of n with want.
func AssertHTML(t *testing.T, want string, n *html.Node) {
	t.Helper()

	if diff := cmp.Diff(want, Serialize(t, n)); diff != "" {
		t.Fatalf("html mismatch (-want +got):\n%s", diff)
	}
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file with surrounding whitespace
// trimmed.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return strings.TrimSpace(string(MustReadGolden(t, path)))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
