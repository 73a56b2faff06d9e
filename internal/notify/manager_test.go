package notify

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeManifest creates a notifier directory with a notifier.json manifest
// under root.
func writeManifest(t *testing.T, root, name string) string {
	t.Helper()

	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create notifier dir: %v", err)
	}

	manifest := Manifest{
		Name:        name,
		Version:     "1.0.0",
		Description: "A test notifier",
		Executable:  name,
	}
	manifestBytes, err := json.Marshal(manifest)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notifier.json"), manifestBytes, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	return dir
}

func TestManager_Discover(t *testing.T) {
	tmpDir := t.TempDir()
	notifierDir := writeManifest(t, tmpDir, "desktop")

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	notifiers := manager.List()
	if len(notifiers) != 1 {
		t.Fatalf("expected 1 notifier, got %d", len(notifiers))
	}

	n := notifiers[0]
	if n.Manifest.Name != "desktop" {
		t.Errorf("expected notifier name 'desktop', got %q", n.Manifest.Name)
	}
	if n.Manifest.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %q", n.Manifest.Version)
	}
	if n.Path != notifierDir {
		t.Errorf("expected path %q, got %q", notifierDir, n.Path)
	}
	if n.Executable != filepath.Join(notifierDir, "desktop") {
		t.Errorf("unexpected executable path %q", n.Executable)
	}
}

func TestManager_Discover_MultipleNotifiers(t *testing.T) {
	tmpDir := t.TempDir()
	writeManifest(t, tmpDir, "desktop")
	writeManifest(t, tmpDir, "sound")

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	if got := len(manager.List()); got != 2 {
		t.Fatalf("expected 2 notifiers, got %d", got)
	}
}

func TestManager_Discover_EmptyDir(t *testing.T) {
	manager := NewManager(t.TempDir())
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}
	if got := len(manager.List()); got != 0 {
		t.Errorf("expected 0 notifiers in empty dir, got %d", got)
	}
}

func TestManager_Discover_MissingDir(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() on missing dir should not fail: %v", err)
	}
	if got := len(manager.List()); got != 0 {
		t.Errorf("expected 0 notifiers, got %d", got)
	}
}

func TestManager_Discover_SkipsInvalidManifest(t *testing.T) {
	tmpDir := t.TempDir()
	writeManifest(t, tmpDir, "good")

	// A notifier with a broken manifest is skipped, not fatal
	badDir := filepath.Join(tmpDir, "bad")
	if err := os.MkdirAll(badDir, 0755); err != nil {
		t.Fatalf("failed to create notifier dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(badDir, "notifier.json"), []byte("{invalid"), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	// A subdirectory without a manifest is ignored entirely
	if err := os.MkdirAll(filepath.Join(tmpDir, "not-a-notifier"), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	if got := len(manager.List()); got != 1 {
		t.Fatalf("expected 1 notifier, got %d", got)
	}
	if _, err := manager.Get("good"); err != nil {
		t.Errorf("valid notifier should be discovered: %v", err)
	}
}

func TestManager_Get(t *testing.T) {
	tmpDir := t.TempDir()
	writeManifest(t, tmpDir, "desktop")

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	n, err := manager.Get("desktop")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if n.Manifest.Name != "desktop" {
		t.Errorf("expected 'desktop', got %q", n.Manifest.Name)
	}

	if _, err := manager.Get("unknown"); !errors.Is(err, ErrNotifierNotFound) {
		t.Errorf("Get unknown error = %v, want ErrNotifierNotFound", err)
	}
}

func TestManager_Rediscover_Clears(t *testing.T) {
	tmpDir := t.TempDir()
	dir := writeManifest(t, tmpDir, "transient")

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}
	if got := len(manager.List()); got != 1 {
		t.Fatalf("expected 1 notifier, got %d", got)
	}

	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("failed to remove notifier dir: %v", err)
	}
	if err := manager.Discover(); err != nil {
		t.Fatalf("second Discover() failed: %v", err)
	}
	if got := len(manager.List()); got != 0 {
		t.Errorf("expected 0 notifiers after removal, got %d", got)
	}
}
