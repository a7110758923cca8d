package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.AI.Provider != ProviderNone {
		t.Errorf("Provider = %q, want %q", cfg.AI.Provider, ProviderNone)
	}
	if cfg.AI.TimeoutSec != 30 {
		t.Errorf("TimeoutSec = %d, want 30", cfg.AI.TimeoutSec)
	}
	if cfg.Mailbox.ListLimit != 10 {
		t.Errorf("ListLimit = %d, want 10", cfg.Mailbox.ListLimit)
	}
}

func TestConfigSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := &AppConfig{
		AI: AIConfig{
			Provider:   ProviderGroq,
			Model:      "llama3-70b-8192",
			MaxTokens:  512,
			TimeoutSec: 15,
		},
		Mailbox: MailboxConfig{
			SeedDir:   "/tmp/seeds",
			ListLimit: 25,
		},
		Display: DisplayConfig{Theme: "default"},
	}

	if err := SaveConfig(path, want); err != nil {
		t.Fatalf("SaveConfig error: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if got.AI != want.AI {
		t.Errorf("AI = %+v, want %+v", got.AI, want.AI)
	}
	if got.Mailbox != want.Mailbox {
		t.Errorf("Mailbox = %+v, want %+v", got.Mailbox, want.Mailbox)
	}
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "ai:\n  provider: anthropic\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.AI.Provider != ProviderAnthropic {
		t.Errorf("Provider = %q, want %q", cfg.AI.Provider, ProviderAnthropic)
	}
	if cfg.AI.MaxTokens != 1024 {
		t.Errorf("MaxTokens = %d, want default 1024", cfg.AI.MaxTokens)
	}
	if cfg.Mailbox.ListLimit != 10 {
		t.Errorf("ListLimit = %d, want default 10", cfg.Mailbox.ListLimit)
	}
}
