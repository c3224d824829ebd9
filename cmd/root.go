package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rylalabs/ryla/internal/app"
	"github.com/rylalabs/ryla/internal/config"
	"github.com/rylalabs/ryla/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "ryla",
	Short: "Placement and lesson progress for language learners",
	Long: "Ryla places a learner with a tiered quiz and a writing sample, " +
		"then gates the lesson path star by star.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides RYLA_DB env var)")
	rootCmd.PersistentFlags().String("user", "", "Learner id (overrides RYLA_USER_ID)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(levelCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(lessonCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then RYLA_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// withApp opens the store, loads configuration and runs fn with an App
// for the selected learner.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newLogger(cmd)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		cfg.UserID = u
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	a, err := app.New(ctx, app.Options{
		Store:     s.Documents(),
		EventRepo: s.EventRepo(),
		Config:    cfg,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	return fn(ctx, a)
}
