package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"termnotes/store"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "backend: disk\ntable: notes\ndisk:\n  path: store\nlog_file: test.log\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := New()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPushListPull(t *testing.T) {
	cfg := writeTestConfig(t)
	note := filepath.Join(t.TempDir(), "note.txt")
	if err := os.WriteFile(note, []byte("a\nbc\n"), 0o644); err != nil {
		t.Fatalf("write note: %v", err)
	}

	out, err := run(t, "--config", cfg, "push", "my notes", note)
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if strings.TrimSpace(out) != "mynotes: create" {
		t.Fatalf("unexpected push output %q", out)
	}

	out, err = run(t, "--config", cfg, "push", "mynotes", note)
	if err != nil {
		t.Fatalf("second push: %v", err)
	}
	if strings.TrimSpace(out) != "mynotes: update" {
		t.Fatalf("unexpected second push output %q", out)
	}

	out, err = run(t, "--config", cfg, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out != "mynotes\n" {
		t.Fatalf("unexpected list output %q", out)
	}

	out, err = run(t, "--config", cfg, "pull", "mynotes")
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if out != "a\nbc\n" {
		t.Fatalf("unexpected pull output %q", out)
	}

	dest := filepath.Join(t.TempDir(), "out.txt")
	if _, err := run(t, "--config", cfg, "pull", "mynotes", "-o", dest); err != nil {
		t.Fatalf("pull to file: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "a\nbc\n" {
		t.Fatalf("unexpected pulled file %q, %v", data, err)
	}

	if _, err := os.Stat(filepath.Join(filepath.Dir(cfg), "test.log")); err != nil {
		t.Fatalf("log file not written: %v", err)
	}
}

func TestTableFlag(t *testing.T) {
	cfg := writeTestConfig(t)
	note := filepath.Join(t.TempDir(), "note.txt")
	if err := os.WriteFile(note, []byte("x"), 0o644); err != nil {
		t.Fatalf("write note: %v", err)
	}
	if _, err := run(t, "--config", cfg, "--table", "scratch", "push", "Foo", note); err != nil {
		t.Fatalf("push: %v", err)
	}
	out, _ := run(t, "--config", cfg, "list")
	if out != "" {
		t.Fatalf("notes table should be empty, got %q", out)
	}
	out, _ = run(t, "--config", cfg, "--table", "scratch", "list")
	if out != "Foo\n" {
		t.Fatalf("unexpected scratch listing %q", out)
	}
}

func TestPullMissing(t *testing.T) {
	cfg := writeTestConfig(t)
	_, err := run(t, "--config", cfg, "pull", "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUnknownBackend(t *testing.T) {
	cfg := writeTestConfig(t)
	if _, err := run(t, "--config", cfg, "--backend", "redis", "list"); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestArgsAreChecked(t *testing.T) {
	cfg := writeTestConfig(t)
	if _, err := run(t, "--config", cfg, "push", "only-title"); err == nil {
		t.Fatalf("expected error for missing file argument")
	}
}
