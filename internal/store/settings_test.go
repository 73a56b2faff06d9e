package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/habitkicker/internal/habit"
)

// newTestStore creates a Store backed by a temp-dir database for testing.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestSettingsRepository_SetAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if err := repo.Set("camera_device", "1"); err != nil {
		t.Fatalf("failed to set setting: %v", err)
	}

	value, err := repo.Get("camera_device")
	if err != nil {
		t.Fatalf("failed to get setting: %v", err)
	}
	if value != "1" {
		t.Errorf("value = %q, want %q", value, "1")
	}

	// Setting the same key again replaces the value
	if err := repo.Set("camera_device", "2"); err != nil {
		t.Fatalf("failed to update setting: %v", err)
	}
	value, err = repo.Get("camera_device")
	if err != nil {
		t.Fatalf("failed to get updated setting: %v", err)
	}
	if value != "2" {
		t.Errorf("value after update = %q, want %q", value, "2")
	}
}

func TestSettingsRepository_GetMissing(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	_, err := repo.Get("does-not-exist")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing key error = %v, want ErrNotFound", err)
	}
}

func TestSettingsRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if err := repo.Set("doomed", "x"); err != nil {
		t.Fatalf("failed to set setting: %v", err)
	}
	if err := repo.Delete("doomed"); err != nil {
		t.Fatalf("failed to delete setting: %v", err)
	}
	if _, err := repo.Get("doomed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete error = %v, want ErrNotFound", err)
	}

	// Deleting a missing key is not an error
	if err := repo.Delete("doomed"); err != nil {
		t.Errorf("deleting a missing key should not fail: %v", err)
	}
}

func TestSettingsRepository_Thresholds(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	// Nothing saved yet
	if _, err := repo.LoadThresholds(); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadThresholds before save error = %v, want ErrNotFound", err)
	}

	saved := habit.DefaultThresholds()
	saved.NailBiteDistance = 0.08
	saved.Clear = 5 * time.Second

	if err := repo.SaveThresholds(saved); err != nil {
		t.Fatalf("failed to save thresholds: %v", err)
	}

	loaded, err := repo.LoadThresholds()
	if err != nil {
		t.Fatalf("failed to load thresholds: %v", err)
	}
	if loaded != saved {
		t.Errorf("loaded thresholds = %+v, want %+v", loaded, saved)
	}
}
