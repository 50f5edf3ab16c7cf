package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-platformer/internal/config"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List all available levels",
	Long: `Shows every level file that can be played, built-in or from --levels,
with the level its flagpole and its tunnels lead to.`,
	Args: cobra.NoArgs,
	RunE: runLevels,
}

func runLevels(_ *cobra.Command, _ []string) error {
	levels, cfg, err := levelCatalog()
	if err != nil {
		return err
	}

	if len(levels) == 0 {
		fmt.Println("No levels available.")
		return nil
	}

	fmt.Println("Available levels:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := len("Level")
	for _, id := range levels {
		maxIDLen = max(maxIDLen, len(id))
	}

	fmt.Printf("  %-*s  %-12s  %s\n", maxIDLen, "Level", "Goal", "Tunnel")
	fmt.Printf("  %-*s  %-12s  %s\n", maxIDLen, "-----", "----", "------")

	for _, id := range levels {
		goal, tunnel := "-", "-"
		if t, ok := cfg.Levels.Target(id); ok {
			goal = t.Goal
			if t.Tunnel != "" {
				tunnel = t.Tunnel
			}
		}
		marker := " "
		if id == cfg.Levels.Start {
			marker = "*"
		}
		fmt.Printf("%s %-*s  %-12s  %s\n", marker, maxIDLen, id, goal, tunnel)
	}

	fmt.Println()
	fmt.Printf("* start level. A goal of %s finishes the game.\n", config.EndLevel)
	fmt.Println("Run 'platformer play <level>' to play a level.")
	return nil
}
