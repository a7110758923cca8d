package main

import (
	"context"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/inbox-assistant/internal/app"
	"github.com/nhle/inbox-assistant/internal/mailbox"
	"github.com/nhle/inbox-assistant/internal/model"
)

func main() {
	logFile, err := os.OpenFile("inbox-assistant.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0660)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.Println("Application starting...")

	configPath := model.DefaultConfigPath()
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Config loaded from %s (provider: %s)", configPath, cfg.AI.Provider)

	// The mailbox lives in memory for the lifetime of the session.
	store, err := mailbox.NewSQLiteStore(":memory:")
	if err != nil {
		log.Fatalf("Failed to open mailbox store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Seed(ctx); err != nil {
		log.Fatalf("Failed to seed mailbox: %v", err)
	}
	if cfg.Mailbox.SeedDir != "" {
		if err := store.SeedFromDirectory(ctx, cfg.Mailbox.SeedDir); err != nil {
			log.Printf("Failed to seed from %s: %v", cfg.Mailbox.SeedDir, err)
		}
	}
	log.Println("Mailbox store initialized.")

	p := tea.NewProgram(app.New(store, cfg, configPath), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
	log.Println("Application exited.")
}
