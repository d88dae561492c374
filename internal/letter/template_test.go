package letter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}
}

func TestResolveSubstitutesEveryOccurrence(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "offer.html", "Hi {{name}}, this confirms {{name}} joined on {{date}}.")

	r := NewResolver(dir)
	got, err := r.Resolve("offer", map[string]string{
		"name": "Ana",
		"date": "1 January 2024",
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	want := "Hi Ana, this confirms Ana joined on 1 January 2024."
	if got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

func TestResolveLeavesUnknownPlaceholdersVerbatim(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "offer.html", "Hello {{name}}, ref {{campaign_code}}.")

	r := NewResolver(dir)
	got, err := r.Resolve("offer", map[string]string{"name": "Ana"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	want := "Hello Ana, ref {{campaign_code}}."
	if got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

func TestResolveMissingTemplate(t *testing.T) {
	r := NewResolver(t.TempDir())

	_, err := r.Resolve("nonexistent", map[string]string{"name": "Ana"})
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("Resolve error = %v, want ErrTemplateNotFound", err)
	}
}

func TestResolveStripsPathComponents(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "offer.html", "body")

	r := NewResolver(dir)
	got, err := r.Resolve("../../../offer", nil)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got != "body" {
		t.Errorf("Resolve = %q, want %q", got, "body")
	}
}
