package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestLineKey(t *testing.T) {
	tests := []struct {
		prefix string
		index  int
		want   string
	}{
		{KeyFormatPrefix, 0, "playback_status.format.00"},
		{KeyFontPrefix, 7, "playback_status.font.07"},
		{KeyColorPrefix, 9, "playback_status.color.09"},
	}
	for _, tt := range tests {
		if got := LineKey(tt.prefix, tt.index); got != tt.want {
			t.Errorf("LineKey(%q, %d): want %q, got %q", tt.prefix, tt.index, tt.want, got)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	if got := s.GetInt("missing", 42); got != 42 {
		t.Errorf("Default int: got %d", got)
	}
	if got := s.GetString("missing", "x"); got != "x" {
		t.Errorf("Default string: got %q", got)
	}

	s.SetInt("n", 7)
	s.SetString("s", "hello")
	s.SetString("numeric", "12")

	if got := s.GetInt("n", 0); got != 7 {
		t.Errorf("GetInt: got %d", got)
	}
	if got := s.GetString("s", ""); got != "hello" {
		t.Errorf("GetString: got %q", got)
	}
	if got := s.GetInt("numeric", 0); got != 12 {
		t.Errorf("GetInt on numeric string: got %d", got)
	}
	if got := s.GetInt("s", -1); got != -1 {
		t.Errorf("GetInt on text: want default, got %d", got)
	}
	if s.Len() != 3 {
		t.Errorf("Len: want 3, got %d", s.Len())
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"settings.toml", FormatTOML},
		{"settings.yaml", FormatYAML},
		{"settings.YML", FormatYAML},
		{"settings", FormatTOML},
	}
	for _, tt := range tests {
		if got := FormatForPath(tt.path); got != tt.want {
			t.Errorf("FormatForPath(%q): want %s, got %s", tt.path, tt.want, got)
		}
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	for _, name := range []string{"settings.toml", "settings.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			s, err := NewFileStore(zap.NewNop(), path)
			if err != nil {
				t.Fatalf("NewFileStore: %v", err)
			}
			s.SetInt(KeyNumLines, 4)
			s.SetInt(KeyRefreshInterval, 250)
			s.SetString(LineKey(KeyFormatPrefix, 0), "%a - %t")
			s.SetString(LineKey(KeyColorPrefix, 0), "65535 0 0")

			if err := s.Flush(); err != nil {
				t.Fatalf("Flush: %v", err)
			}

			reopened, err := NewFileStore(zap.NewNop(), path)
			if err != nil {
				t.Fatalf("Reopen: %v", err)
			}
			if got := reopened.GetInt(KeyNumLines, 0); got != 4 {
				t.Errorf("num_lines: got %d", got)
			}
			if got := reopened.GetInt(KeyRefreshInterval, 0); got != 250 {
				t.Errorf("refresh_interval: got %d", got)
			}
			if got := reopened.GetString(LineKey(KeyFormatPrefix, 0), ""); got != "%a - %t" {
				t.Errorf("format.00: got %q", got)
			}
			if got := reopened.GetString(LineKey(KeyColorPrefix, 0), ""); got != "65535 0 0" {
				t.Errorf("color.00: got %q", got)
			}
		})
	}
}

func TestFileStore_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	s, err := NewFileStore(zap.NewNop(), path)
	if err != nil {
		t.Fatalf("Missing file should not fail: %v", err)
	}
	if got := s.GetInt(KeyNumLines, DefaultNumLines); got != DefaultNumLines {
		t.Errorf("Expected default, got %d", got)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("File should not be created before Flush")
	}
}

func TestFileStore_ReloadIgnoresOwnWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	s, _ := NewFileStore(zap.NewNop(), path)

	s.SetInt(KeyNumLines, 2)
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	changed, err := s.Reload()
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if changed {
		t.Error("Own write reported as a change")
	}
}

func TestFileStore_ReloadSeesExternalChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	s, _ := NewFileStore(zap.NewNop(), path)
	s.SetInt(KeyNumLines, 2)
	_ = s.Flush()

	if err := os.WriteFile(path, []byte("\"playback_status.num_lines\" = 6\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	changed, err := s.Reload()
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if !changed {
		t.Error("External write not detected")
	}
	if got := s.GetInt(KeyNumLines, 0); got != 6 {
		t.Errorf("num_lines after reload: want 6, got %d", got)
	}
}

func TestFileStore_ReloadParseErrorKeepsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	s, _ := NewFileStore(zap.NewNop(), path)
	s.SetInt(KeyNumLines, 5)
	_ = s.Flush()

	if err := os.WriteFile(path, []byte("playback_status.num_lines: [unterminated\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := s.Reload(); err == nil {
		t.Fatal("Expected a parse error")
	}
	if got := s.GetInt(KeyNumLines, 0); got != 5 {
		t.Errorf("Values should survive a bad file, got %d", got)
	}
}

func TestFileStore_FlushUnchangedSkipsWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	s, _ := NewFileStore(zap.NewNop(), path)
	s.SetString("k", "v")
	_ = s.Flush()

	before, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	_ = s.Flush()

	after, _ := os.Stat(path)
	if !after.ModTime().Equal(before.ModTime()) {
		t.Error("Unchanged content was rewritten")
	}
}

func TestWatcher_EmitsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	w := NewWatcher(zap.NewNop(), path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	// Writes to other files in the directory are ignored
	_ = os.WriteFile(filepath.Join(filepath.Dir(path), "other.txt"), []byte("x"), 0o644)
	select {
	case <-w.Changes():
		t.Fatal("Unexpected change for an unrelated file")
	case <-time.After(100 * time.Millisecond):
	}

	if err := os.WriteFile(path, []byte("a = 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout: no change reported")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := NewWatcher(zap.NewNop(), filepath.Join(t.TempDir(), "settings.toml"))
	if err := w.Stop(); err != nil {
		t.Errorf("Stop before Start: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Second Stop: %v", err)
	}
}
