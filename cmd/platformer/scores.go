package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-platformer/internal/storage"
)

var (
	flagScoresLimit int
	flagExport      bool
	flagImport      bool
	flagClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [level]",
	Short: "Show high scores",
	Long: `Display the top high scores for a level, or a summary of every level.

High scores live in the database. Each level also has a plain
high_scores_<level> file of name:score lines in the --tables directory:
--export writes the database's best scores into that file and --import
loads the file into the database.

Examples:
  platformer scores
  platformer scores level1.txt
  platformer scores level1.txt --export
  platformer scores level1.txt --import --tables ./old-scores`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagScoresLimit, "limit", "n", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagExport, "export", false, "Write the level's scores to its table file")
	scoresCmd.Flags().BoolVar(&flagImport, "import", false, "Load the level's table file into the database")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the level's scores from the database")
	scoresCmd.MarkFlagsMutuallyExclusive("export", "import", "clear")
}

func runScores(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if len(args) == 0 {
		if flagExport || flagImport || flagClear {
			return fmt.Errorf("--export, --import and --clear need a level")
		}
		return printSummary(store)
	}

	level := args[0]
	switch {
	case flagImport:
		return importTable(store, level)
	case flagExport:
		return exportTable(store, level)
	case flagClear:
		if err := store.ClearScores(level); err != nil {
			return err
		}
		fmt.Printf("Cleared scores for %s\n", level)
		return nil
	}
	return printScores(store, level)
}

func printScores(store *storage.Store, level string) error {
	scores, err := store.TopScores(level, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", level)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'platformer play %s' to set the first high score!\n", level)
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-8s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-16s  %-8s  %s\n", "----", "------", "-----", "----")
	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-16s  %-8d  %s\n", i+1, entry.Player, entry.Score, dateStr)
	}

	if last, err := store.LastRun(level); err == nil {
		fmt.Println()
		fmt.Printf("Last run: %s scored %d on %s\n", last.Player, last.Score, last.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func printSummary(store *storage.Store) error {
	stats, err := store.Stats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	fmt.Printf("  %-14s  %-5s  %-6s  %-8s  %s\n", "Level", "Runs", "Best", "Average", "Last played")
	fmt.Printf("  %-14s  %-5s  %-6s  %-8s  %s\n", "-----", "----", "----", "-------", "-----------")
	for _, s := range stats {
		fmt.Printf("  %-14s  %-5d  %-6d  %-8.1f  %s\n",
			s.Level, s.Runs, s.HighScore, s.AvgScore, s.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

func tablePath(level string) (string, error) {
	if flagTableDir == "" {
		return "", fmt.Errorf("no table directory (set --tables)")
	}
	return filepath.Join(flagTableDir, storage.TableFileName(level)), nil
}

func importTable(store *storage.Store, level string) error {
	path, err := tablePath(level)
	if err != nil {
		return err
	}
	table, err := storage.ReadTable(path)
	if err != nil {
		return err
	}
	n, err := store.ImportTable(level, table)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d scores from %s\n", n, path)
	logger.Info("table imported", "level", level, "path", path, "scores", n)
	return nil
}

func exportTable(store *storage.Store, level string) error {
	path, err := tablePath(level)
	if err != nil {
		return err
	}
	table, err := store.ExportTable(level, flagScoresLimit)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := storage.WriteTable(path, table); err != nil {
		return err
	}
	fmt.Printf("Exported %d scores to %s\n", table.Len(), path)
	logger.Info("table exported", "level", level, "path", path, "scores", table.Len())
	return nil
}
