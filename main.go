package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"everywhere/internal/config"
	"everywhere/internal/eventbus"
	"everywhere/internal/ui"
)

func main() {
	// Parse command line arguments
	var targetDir, configPath string
	flag.StringVar(&targetDir, "dir", "", "Directory to search")
	flag.StringVar(&targetDir, "d", "", "Directory to search (shorthand)")
	flag.StringVar(&configPath, "c", "", "Config file (default <dir>/"+config.FileName+")")
	flag.Parse()

	// If no directory specified, check for remaining args
	if targetDir == "" && flag.NArg() > 0 {
		targetDir = flag.Arg(0)
	}

	// If still no directory, use current directory
	if targetDir == "" {
		var err error
		targetDir, err = os.Getwd()
		if err != nil {
			fmt.Printf("Error getting current directory: %v\n", err)
			os.Exit(1)
		}
	}

	// Resolve to absolute path
	absDir, err := filepath.Abs(targetDir)
	if err != nil {
		fmt.Printf("Error resolving path: %v\n", err)
		os.Exit(1)
	}
	if configPath == "" {
		configPath = filepath.Join(absDir, config.FileName)
	}

	// Set up logging
	logFile, err := os.OpenFile("everywhere.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create event bus
	bus := eventbus.New()
	defer bus.Close()

	configSvc := config.NewConfigServiceWithBus(configPath, bus)
	cfg := loadOrCreateConfig(configSvc, configPath, absDir)

	log.Printf("Creating UI model...")
	uiModel := ui.NewModel(ctx, bus, cfg)
	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithContext(ctx))
	uiModel.SetProgram(p)

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Forward events the UI cares about
	forward := func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	}
	bus.Subscribe(eventbus.EventError, forward)
	bus.Subscribe(eventbus.EventSearchCompleted, forward)
	bus.Subscribe(eventbus.EventProviderFinished, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ProviderFinishedEvent); ok {
			log.Printf("Provider %s finished query %d (err: %v)", event.ProviderID, event.Generation, event.Err)
		}
	})

	// Run the UI
	log.Printf("Starting UI...")
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Printf("Error running program: %v", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	log.Printf("UI exited normally")
}

// loadOrCreateConfig loads the config file or writes a default one searching targetDir
func loadOrCreateConfig(configSvc config.ConfigService, configPath, targetDir string) *config.Config {
	// Check if config exists
	if _, err := os.Stat(configPath); err == nil {
		cfg, err := configSvc.Load()
		if err == nil {
			log.Printf("Loaded config from %s", configPath)
			return cfg
		}
		log.Printf("Failed to load config %s, using defaults: %v", configPath, err)
		cfg = config.DefaultConfig()
		cfg.Roots = []string{targetDir}
		return cfg
	}

	// No config or failed to load - create new one
	log.Printf("Creating new config for %s", targetDir)
	cfg := config.DefaultConfig()
	cfg.Roots = []string{targetDir}

	if err := configSvc.Save(cfg); err != nil {
		log.Printf("Failed to save config: %v", err)
	}
	return cfg
}
