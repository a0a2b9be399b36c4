package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campaigns.yaml")
	content := `campaigns:
  - platform: other
    ticketId: 2f5a1f26-52f4-4a34-9d3e-1f7a0c9b8e11
    brandId: dscr-default
  - platform: takeout
    ticketId: 7f2a9c44-83b1-4f6e-a2d7-5c3b9e8d1a22
    brandId: dscr-takeout
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}

	seeds, err := loadSeedFile(path)
	if err != nil {
		t.Fatalf("loadSeedFile returned error: %v", err)
	}

	if len(seeds.Campaigns) != 2 {
		t.Fatalf("expected 2 campaigns, got %d", len(seeds.Campaigns))
	}
	first := seeds.Campaigns[0]
	if first.Platform != "other" {
		t.Errorf("Platform = %q, want %q", first.Platform, "other")
	}
	if first.TicketID != "2f5a1f26-52f4-4a34-9d3e-1f7a0c9b8e11" {
		t.Errorf("TicketID = %q, want seed value", first.TicketID)
	}
	if first.BrandID != "dscr-default" {
		t.Errorf("BrandID = %q, want %q", first.BrandID, "dscr-default")
	}
}

func TestLoadSeedFileRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campaigns.yaml")
	if err := os.WriteFile(path, []byte("campaigns: []\n"), 0o600); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}

	if _, err := loadSeedFile(path); err == nil {
		t.Fatal("expected error for empty campaign list")
	}
}
