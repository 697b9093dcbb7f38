// chatsync - terminal client for a conversational document-search service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatsync"
	"github.com/jeranaias/chatsync/internal/config"
	"github.com/jeranaias/chatsync/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "", "tui":
		runTUI()
	case "version", "--version", "-v":
		fmt.Printf("chatsync %s (%s, built %s)\n", Version, GitCommit, BuildDate)
	case "config":
		handleConfig(args[1:])
	case "logout":
		handleLogout()
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`chatsync - terminal client for conversational document search

Usage:
  chatsync              Start the chat interface
  chatsync config init  Write the default config file
  chatsync config path  Show the config file location
  chatsync logout       End the session and clear local state
  chatsync version      Show version information`)
}

func runTUI() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	services := chatsync.New(cfg)
	defer services.Close()

	if err := services.OpenStore(); err != nil {
		// Local persistence is a convenience; run without it.
		fmt.Fprintf(os.Stderr, "Warning: local store unavailable: %v\n", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	services.LoadUser(ctx)
	cancel()

	// Hot-reload the config file while the TUI runs.
	if path, err := config.ConfigPathTOML(); err == nil {
		if watcher, err := config.Watch(path,
			services.ApplyConfig,
			func(err error) {
				fmt.Fprintf(os.Stderr, "Warning: config reload failed: %v\n", err)
			},
		); err == nil {
			defer watcher.Close()
		}
	}

	program := tea.NewProgram(
		chat.New(services),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func handleConfig(args []string) {
	sub := ""
	if len(args) > 0 {
		sub = args[0]
	}

	path, err := config.ConfigPathTOML()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch sub {
	case "init":
		if _, statErr := os.Stat(path); statErr == nil {
			fmt.Fprintf(os.Stderr, "Config already exists: %s\n", path)
			os.Exit(1)
		}
		if err := config.SaveTOML(config.Default(), path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
	case "path", "":
		fmt.Println(path)
	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", sub)
		os.Exit(1)
	}
}

func handleLogout() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	services := chatsync.New(cfg)
	defer services.Close()
	if err := services.OpenStore(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: local store unavailable: %v\n", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := services.Logout(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: remote sign-out failed: %v\n", err)
	}
	fmt.Println("Logged out.")
}
