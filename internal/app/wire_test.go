package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"promptart/internal/history"
	"promptart/internal/infra"
)

func testConfig(t *testing.T) *infra.Config {
	t.Helper()
	return &infra.Config{
		ImageProvider:   "placeholder",
		ImageTimeout:    time.Minute,
		SampleImagesDir: filepath.Join(t.TempDir(), "samples"),
		HistoryDriver:   infra.HistoryNone,
	}
}

func TestBuildPlaceholderWithoutHistory(t *testing.T) {
	cfg := testConfig(t)
	svc, err := Build(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer svc.Close()

	if _, ok := svc.History.(history.Nop); !ok {
		t.Fatalf("History = %T, want history.Nop", svc.History)
	}
	if info, err := os.Stat(cfg.SampleImagesDir); err != nil || !info.IsDir() {
		t.Fatalf("sample directory not created: %v", err)
	}
	if svc.Images.Backend() != "placeholder" {
		t.Fatalf("backend = %q", svc.Images.Backend())
	}
	if svc.Catalog.Len() != 15 {
		t.Fatalf("catalog len = %d", svc.Catalog.Len())
	}
}

func TestBuildSQLiteHistory(t *testing.T) {
	cfg := testConfig(t)
	cfg.HistoryDriver = infra.HistorySQLite
	cfg.HistorySQLitePath = filepath.Join(t.TempDir(), "gen.db")

	svc, err := Build(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer svc.Close()

	if _, err := svc.Samples.Get(context.Background(), 0); err != nil {
		t.Fatalf("Get: %v", err)
	}
	recent, err := svc.History.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 1 || recent[0].Source != "sample" || recent[0].PromptID == nil || *recent[0].PromptID != 0 {
		t.Fatalf("unexpected history %+v", recent)
	}
}

func TestBuildRejectsMissingCredentials(t *testing.T) {
	cfg := testConfig(t)
	cfg.ImageProvider = "huggingface"
	if _, err := Build(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatalf("expected error without HF token")
	}
}

func TestBuildCustomCatalog(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	yaml := "prompts:\n  - id: 0\n    prompt: a lighthouse in fog\n    category: moody\n    style: photo\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	cfg.PromptCatalogPath = path

	svc, err := Build(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if svc.Catalog.Len() != 1 {
		t.Fatalf("catalog len = %d, want 1", svc.Catalog.Len())
	}
}
