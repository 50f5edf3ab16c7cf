package main

import (
	"fmt"
	"os"
	"os/user"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/games/platformer"
	"github.com/vovakirdan/tui-platformer/internal/platform/tui"
	"github.com/vovakirdan/tui-platformer/internal/registry"
)

var flagName string

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play the game",
	Long: `Start playing from the configured start level, or from the given level.

Controls:
  Space/W/Up   - Jump
  A/D/Arrows   - Move
  S/Down       - Enter a tunnel you are standing on
  P            - Pause
  R            - Restart the level
  Esc          - Back (when paused or over)
  Ctrl+S       - Screenshot
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - More health, faster, starts at the lowest difficulty
  normal - Starts at 30% difficulty
  hard   - Less health, slower, starts at 70% difficulty
  fixed  - No progression, stays at config's initial level

Examples:
  platformer play
  platformer play bonus.txt
  platformer play --difficulty hard
  platformer play --config ./my-platformer.toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagName, "name", "", "Name offered when saving a score (default: your user name)")
}

// terminalConfig builds the runtime config from the terminal size.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// modelOptions returns the options shared by every local game.
func modelOptions() []tui.Option {
	name := flagName
	if name == "" {
		if u, err := user.Current(); err == nil {
			name = u.Username
		}
	}
	opts := []tui.Option{
		tui.WithPlayerName(name),
		tui.WithLogger(logger),
	}
	if flagTableDir != "" {
		opts = append(opts, tui.WithTableDir(flagTableDir))
	}
	return opts
}

func runPlay(_ *cobra.Command, args []string) error {
	opts := modelOptions()
	if len(args) == 1 {
		levels, _, err := levelCatalog()
		if err != nil {
			return err
		}
		if !slices.Contains(levels, args[0]) {
			return fmt.Errorf("%w: %q (run 'platformer levels' to see them)", platformer.ErrUnknownLevel, args[0])
		}
		opts = append(opts, tui.WithStartLevel(args[0]))
	}

	game, err := registry.Create(platformer.GameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	if err := tui.Run(game, store, terminalConfig(), opts...); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	// A level that failed to load is shown in game; report it on exit too.
	if pg, ok := game.(*platformer.Game); ok && pg.Err() != nil {
		return fmt.Errorf("game stopped: %w", pg.Err())
	}
	return nil
}
