package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-platformer/internal/games/platformer"
	"github.com/vovakirdan/tui-platformer/internal/platform/tui"
	"github.com/vovakirdan/tui-platformer/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a level from a menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to start a level and Tab for the
high scores. Leaving a game (Esc when paused or over) returns to the menu.

Examples:
  platformer menu
  platformer menu --levels ./my-levels`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	levels, _, err := levelCatalog()
	if err != nil {
		return err
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	cfg := terminalConfig()
	opts := modelOptions()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(levels, store, cfg)
		if err != nil {
			return err
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, levels, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			return nil
		}

		if menuResult.Level == "" {
			return nil
		}

		game, err := registry.Create(platformer.GameID)
		if err != nil {
			return fmt.Errorf("creating game: %w", err)
		}

		// Fresh seed for each game unless one was fixed
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		gameOpts := append(opts[:len(opts):len(opts)], tui.WithStartLevel(menuResult.Level))
		if err := tui.Run(game, store, cfg, gameOpts...); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}
}
