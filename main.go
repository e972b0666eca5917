package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"pmdash/api"
	"pmdash/config"
	"pmdash/model"
	"pmdash/storage"
	"pmdash/ui"
)

const Version = "v0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	archive, err := storage.NewArchive(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to initialize transcript archive: %v\n", err)
		os.Exit(1)
	}
	defer archive.Close()

	client := api.NewClient(cfg.APIBaseURL)
	dataModel := model.NewModel(cfg, client, archive, Version)

	p := tea.NewProgram(
		ui.NewAppView(dataModel),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running pmdash: %v\n", err)
		os.Exit(1)
	}
}
