// Package cli provides the pagetrace command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sibexico/PageTrace/paging"
)

// app is the state shared by the subcommands of one invocation
type app struct {
	configPath string
	logLevel   string
	width      int

	config *paging.Config
	logger *slog.Logger
	memo   *paging.Memo
}

// NewRootCommand builds the command tree. Every call returns independent
// commands with their own flags and state.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use: "pagetrace",
		Short: "pagetrace simulates page replacement policies and prints " +
			"step by step traces.",
		Long: `pagetrace simulates FIFO, LRU, Optimal and Clock page ` +
			`replacement over a reference string. Traces can be rendered as ` +
			`tables, compared across policies, and exported for replay.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "JSON configuration file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().IntVar(&a.width, "width", 0, "Table width in columns (0 detects the terminal)")

	rootCmd.AddCommand(newRunCmd(a))
	rootCmd.AddCommand(newCompareCmd(a))
	rootCmd.AddCommand(newShowCmd(a))

	return rootCmd
}

// Execute runs the root command and exits, running registered exit handlers.
func Execute() {
	err := NewRootCommand().Execute()
	if err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

// init loads configuration in increasing precedence: defaults, config
// file, .env and environment, command-line flags.
func (a *app) init(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	config := paging.DefaultConfig()
	if a.configPath != "" {
		loaded, err := paging.LoadConfigFromFile(a.configPath)
		if err != nil {
			return err
		}
		config = loaded
	}
	config.ApplyEnv()

	if a.logLevel != "" {
		config.LogLevel = a.logLevel
	}
	if err := applyFlags(cmd, config); err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}
	a.config = config

	level, _ := config.SlogLevel()
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	memo, err := paging.NewMemo(config.CacheSize, a.logger)
	if err != nil {
		return err
	}
	a.memo = memo

	a.logger.Debug("configuration loaded",
		slog.String("policy", config.Policy),
		slog.Int("frames", config.Frames),
		slog.String("compression", config.Compression),
	)
	return nil
}

// applyFlags copies explicitly set simulation flags over the configuration
func applyFlags(cmd *cobra.Command, config *paging.Config) error {
	flags := cmd.Flags()

	if f := flags.Lookup("policy"); f != nil && f.Changed {
		config.Policy = f.Value.String()
	}
	if f := flags.Lookup("frames"); f != nil && f.Changed {
		n, err := flags.GetInt("frames")
		if err != nil {
			return err
		}
		config.Frames = n
	}
	if f := flags.Lookup("compression"); f != nil && f.Changed {
		config.Compression = f.Value.String()
	}
	return nil
}

func (a *app) tableWidth(cmd *cobra.Command) int {
	if a.width > 0 {
		return a.width
	}
	return outputWidth(cmd.OutOrStdout())
}
