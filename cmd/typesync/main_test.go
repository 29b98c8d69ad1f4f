package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/typesync/internal/config"
	"github.com/verte-zerg/typesync/internal/history"
	"github.com/verte-zerg/typesync/internal/model"
	"github.com/verte-zerg/typesync/internal/stats"
	"github.com/verte-zerg/typesync/internal/store"
)

func sampleReport() stats.Report {
	results := []model.TestResult{
		{Speed: 52.5, Mistakes: 1, Accuracy: 97.5, Keystrokes: 230, Date: time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC)},
		{Speed: 47, Accuracy: 100, Keystrokes: 210, Date: time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)},
	}
	return stats.Report{Results: results, Overall: stats.Summarize(results), Window: 2}
}

func TestWriteHistoryJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeHistory(&buf, "json", sampleReport(), 2); err != nil {
		t.Fatalf("write: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 2 || decoded[0]["speed"] != 52.5 || decoded[0]["date"] != "2024-04-02T08:00:00Z" {
		t.Fatalf("unexpected json: %s", buf.String())
	}
}

func TestWriteHistoryYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := writeHistory(&buf, "yaml", sampleReport(), 2); err != nil {
		t.Fatalf("write: %v", err)
	}
	var decoded []model.TestResult
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 2 || decoded[1].Speed != 47 || decoded[0].Keystrokes != 230 {
		t.Fatalf("unexpected yaml: %s", buf.String())
	}
}

func TestWriteHistoryEmptyJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeHistory(&buf, "json", stats.Report{}, 1); err != nil {
		t.Fatalf("write: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("expected empty array, got %q", buf.String())
	}
}

func TestWriteHistoryText(t *testing.T) {
	var buf bytes.Buffer
	if err := writeHistory(&buf, "text", sampleReport(), 2); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Summary", "Tests: 2", "Speed (WPM)", "Recent Results", "52.50"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestWriteHistoryUnknownFormat(t *testing.T) {
	if err := writeHistory(&bytes.Buffer{}, "xml", sampleReport(), 1); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestValidateConfig(t *testing.T) {
	ok := model.Config{SampleInterval: time.Second, Backend: backendMemory}
	if err := validateConfig(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := []model.Config{
		{SampleInterval: 0, Backend: backendMemory},
		{SampleInterval: time.Second, Backend: "cloud"},
		{SampleInterval: time.Second, Backend: backendRemote},
		{SampleInterval: time.Second, Backend: backendLocal},
	}
	for _, cfg := range bad {
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestOpenBackendLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "typesync.db")
	backing, closeBackend, err := openBackend(context.Background(), model.Config{Backend: backendLocal, DBPath: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer closeBackend()
	if _, ok := backing.(*store.Store); !ok {
		t.Fatalf("expected sqlite store, got %T", backing)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected db file: %v", err)
	}
}

func TestOpenBackendMemoryAndUnknown(t *testing.T) {
	backing, closeBackend, err := openBackend(context.Background(), model.Config{Backend: backendMemory})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	closeBackend()
	if _, ok := backing.(*history.MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", backing)
	}
	if _, _, err := openBackend(context.Background(), model.Config{Backend: "cloud"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestWriteUpdatedAt(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "typesync.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	ctx := context.Background()

	var buf bytes.Buffer
	if err := writeUpdatedAt(ctx, &buf, st); err != nil || buf.Len() != 0 {
		t.Fatalf("expected nothing before the first sync, got %q (%v)", buf.String(), err)
	}
	adapter := history.New(st, history.Config{})
	t.Cleanup(adapter.Close)
	if _, err := adapter.Append(ctx, model.TestResult{Speed: 40}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := writeUpdatedAt(ctx, &buf, st); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "Last synced:") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Sync.Backend != nil || cfg.Practice.SampleMs != nil {
		t.Fatalf("expected commented template to set nothing")
	}
}
