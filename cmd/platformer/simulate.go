package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/games/platformer"
)

var (
	flagTicks    int
	flagInputs   string
	flagSimLevel string
	flagSnapshot string
	flagCompare  string
	flagScreen   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a scripted game without a terminal",
	Long: `Run the game headless for a number of ticks, feeding a scripted input,
and print the events and final state.

Inputs are comma-separated steps of actions joined by '+', each with an
optional repeat count: J jump, L left, R right, D duck, P pause,
X restart, _ idle. After the script runs out the player idles.

Runs are deterministic for a given --seed, config and script. --snapshot
saves the final state and --compare checks a run against a saved one.

Examples:
  platformer simulate --ticks 500 --inputs "R*200,J+R*30"
  platformer simulate --seed 7 --inputs "R*400" --snapshot run.msgpack
  platformer simulate --seed 7 --inputs "R*400" --compare run.msgpack`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagTicks, "ticks", 1000, "Number of ticks to simulate")
	simulateCmd.Flags().StringVar(&flagInputs, "inputs", "", "Input script, e.g. \"R*50,J+R,_*10\"")
	simulateCmd.Flags().StringVar(&flagSimLevel, "level", "", "Start at this level instead of the configured one")
	simulateCmd.Flags().StringVar(&flagSnapshot, "snapshot", "", "Write the final snapshot (msgpack) to this file")
	simulateCmd.Flags().StringVar(&flagCompare, "compare", "", "Compare the final snapshot with this file")
	simulateCmd.Flags().BoolVar(&flagScreen, "screen", false, "Print the final screen")
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	script, err := core.ParseScript(flagInputs)
	if err != nil {
		return err
	}

	cfg := core.DefaultConfig()
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed

	game := platformer.New()
	game.Reset(cfg)
	if flagSimLevel != "" {
		if err := game.LoadLevel(flagSimLevel); err != nil {
			return err
		}
	}
	if err := game.Err(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	idle := core.NewInputFrame()
	var result core.StepResult
	for tick := range flagTicks {
		in := idle
		if tick < len(script) {
			in = script[tick]
		}
		result = game.Step(in)
		for _, ev := range result.Events {
			fmt.Fprintf(out, "tick %5d  %-13s level=%s next=%s score=%d\n",
				result.State.Tick, ev.Kind, ev.Level, ev.Next, ev.Score)
		}
		if result.State.GameOver || result.State.Finished {
			break
		}
	}

	state := game.State()
	fmt.Fprintf(out, "\nlevel %s  tick %d  score %d  health %d/%d",
		state.Level, state.Tick, state.Score, state.Health, state.MaxHealth)
	switch {
	case state.Finished:
		fmt.Fprint(out, "  finished")
	case state.GameOver:
		fmt.Fprint(out, "  game over")
	}
	fmt.Fprintln(out)

	if flagScreen {
		screen := core.NewScreen(cfg.ScreenW, cfg.ScreenH)
		game.Render(screen)
		fmt.Fprintln(out, screen.String())
	}

	snap := game.Snapshot()
	sum, err := snap.Fingerprint()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "fingerprint %016x\n", sum)

	if flagSnapshot != "" {
		data, err := snap.Marshal()
		if err != nil {
			return err
		}
		if err := os.WriteFile(flagSnapshot, data, 0o644); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
		logger.Info("snapshot written", "path", flagSnapshot, "bytes", len(data))
	}

	if flagCompare != "" {
		return compareSnapshot(out, flagCompare, sum)
	}
	return nil
}

// compareSnapshot checks a run's fingerprint against a saved snapshot.
func compareSnapshot(out io.Writer, path string, sum uint64) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	saved, err := platformer.UnmarshalSnapshot(data)
	if err != nil {
		return err
	}
	want, err := saved.Fingerprint()
	if err != nil {
		return err
	}
	if want != sum {
		return fmt.Errorf("run diverged from %s at tick %d: fingerprint %016x, saved %016x", path, saved.Tick, sum, want)
	}
	fmt.Fprintf(out, "matches %s\n", path)
	return nil
}
