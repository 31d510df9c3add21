// Advtxt is a persistent, room-based text adventure engine.
// Usage: advtxt [--version] [--plain] [--serve] [--seed] [--config <file>] [world_dir]
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fardog/advtxt/cli"
	"github.com/fardog/advtxt/config"
	"github.com/fardog/advtxt/engine"
	"github.com/fardog/advtxt/loader"
	"github.com/fardog/advtxt/server"
	"github.com/fardog/advtxt/storage"
	"github.com/fardog/advtxt/storage/boltstore"
	"github.com/fardog/advtxt/storage/memstore"
	"github.com/fardog/advtxt/storage/pqstore"
	"github.com/fardog/advtxt/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	plain := false
	serve := false
	seed := false
	var configFile string
	var worldDir string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("advtxt %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--serve":
			serve = true
		case "--seed":
			seed = true
		case "--config":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--config requires a file path\n")
				os.Exit(1)
			}
			i++
			configFile = args[i]
		default:
			if worldDir == "" {
				worldDir = args[i]
			}
		}
	}

	cfg := config.Default()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if worldDir != "" {
		cfg.WorldDir = worldDir
	}

	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if seed {
		if cfg.WorldDir == "" {
			fmt.Fprintf(os.Stderr, "--seed requires a world directory\n")
			os.Exit(1)
		}
		rooms, err := loader.Load(cfg.WorldDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading world: %v\n", err)
			os.Exit(1)
		}
		if err := loader.Seed(store, rooms); err != nil {
			fmt.Fprintf(os.Stderr, "Error seeding world: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Seeded %d rooms.\n", len(rooms))
		if !serve && !plain {
			return
		}
	}

	// The memory backend starts empty, so a world directory is loaded
	// into it at startup.
	if cfg.Storage.Backend == "memory" && !seed && cfg.WorldDir != "" {
		rooms, err := loader.Load(cfg.WorldDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading world: %v\n", err)
			os.Exit(1)
		}
		if err := loader.Seed(store, rooms); err != nil {
			fmt.Fprintf(os.Stderr, "Error seeding world: %v\n", err)
			os.Exit(1)
		}
	}

	eng := engine.New(store, engine.WithMap(cfg.Map))

	if serve {
		s := server.New(eng, log.Default())
		if err := s.ListenAndServe(cfg.Listen); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if plain || !isTerminal() {
		c := cli.New(eng)
		if err := c.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	player, err := promptUsername()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := tui.Run(eng, player); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return memstore.New(), nil
	case "bolt":
		return boltstore.Open(cfg.Storage.Path)
	case "postgres":
		return pqstore.Open(cfg.Storage.DSN)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// promptUsername reads the player name before the alternate screen
// takes over.
func promptUsername() (string, error) {
	fmt.Print("What is your username? ")
	var name string
	if _, err := fmt.Scanln(&name); err != nil {
		return "", fmt.Errorf("reading username: %w", err)
	}
	if name == "" {
		return "", fmt.Errorf("no username given")
	}
	return name, nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
