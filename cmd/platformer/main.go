// platformer is a side-scrolling platformer played in the terminal.
//
// Usage:
//
//	platformer play [level]     - Play from the start level or a given level
//	platformer menu             - Pick a level interactively
//	platformer levels           - List levels and where they lead
//	platformer scores <level>   - Show, import or export high scores
//	platformer simulate         - Run a scripted game without a terminal
//	platformer serve            - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 100)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.platformer/scores.db)
//	--tables <dir>       - Directory of high_scores_<level> files
//	--config <path>      - YAML or TOML game config
//	--difficulty <name>  - easy, normal, hard or fixed
//	--levels <dir>       - Directory of level files overriding the built-in ones
//	--log <path>         - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/games/platformer"
	"github.com/vovakirdan/tui-platformer/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagTableDir   string
	flagConfig     string
	flagDifficulty string
	flagLevelDir   string
	flagLogPath    string
	flagLogLevel   string

	logger  = log.New(io.Discard)
	logFile *os.File
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "platformer",
	Short: "A side-scrolling platformer in your terminal",
	Long: `Run, jump and stomp through text-drawn levels in your terminal.

Available commands:
  play      - Play from the start level or a given level
  menu      - Interactive level picker
  levels    - List levels and where their goals lead
  scores    - View, import or export high scores
  simulate  - Run a scripted game without a terminal
  serve     - Start SSH server for remote play

Examples:
  platformer play
  platformer play level2.txt --difficulty hard
  platformer menu
  platformer simulate --ticks 600 --inputs "R*200,J+R*20,R*380"
  platformer serve --ssh :2222`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 100, "Tick rate (ticks per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.platformer/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagTableDir, "tables", "~/.platformer", "Directory of high_scores_<level> files (empty disables them)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config (YAML or TOML)")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLevelDir, "levels", "", "Directory of level files overriding the built-in ones")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup applies the global flags before any command runs.
func setup(_ *cobra.Command, _ []string) error {
	if flagDifficulty != "" && config.ParsePreset(flagDifficulty) == "" {
		return fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
	}
	if flagConfig != "" {
		if _, err := config.LoadPlatformer(flagConfig); err != nil {
			return err
		}
	}
	platformer.SetConfigPath(flagConfig)
	platformer.SetDifficultyPreset(flagDifficulty)
	platformer.SetLevelDir(flagLevelDir)

	tableDir, err := storage.ExpandHome(flagTableDir)
	if err != nil {
		return err
	}
	flagTableDir = tableDir

	if flagLogPath == "" {
		return nil
	}
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return err
	}
	path, err := storage.ExpandHome(flagLogPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create log directory: %w", err)
	}
	logFile, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}
	logger = log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		Prefix:          "platformer",
		Level:           level,
	})
	platformer.SetLogger(logger)
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if logFile != nil {
		return logFile.Close()
	}
	return nil
}

// openStore opens the scores database, warning and continuing without it
// on failure.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("could not open scores database", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

// levelCatalog returns the playable levels and the configuration they
// come from.
func levelCatalog() ([]string, config.PlatformerConfig, error) {
	cfg, err := platformer.LoadConfig()
	if err != nil {
		logger.Warn("using default config", "err", err)
	}
	ids, err := platformer.SourceFor(cfg).List()
	if err != nil {
		return nil, cfg, err
	}
	return ids, cfg, nil
}
