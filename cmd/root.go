package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriTwitch/internal/app"
	"github.com/Rorical/RoriTwitch/internal/config"
)

var (
	channelFlag string
	profileFlag string
	debugFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "roritwitch",
	Short: "Twitch chat and moderation in the terminal",
	Long: `RoriTwitch is a terminal Twitch client: watch and send chat, moderate with
slash commands, and switch channels or categories from searchable pickers.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the chat application
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runApp(cfg)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&channelFlag, "channel", "c", "", "channel to join instead of the profile's")
	rootCmd.PersistentFlags().StringVarP(&profileFlag, "profile", "p", "", "profile to use for this run")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", os.Getenv("RORITWITCH_DEBUG") != "", "log at debug level")

	// Add subcommands
	rootCmd.AddCommand(profileCmd)
}

// loadConfig loads the config and applies the per-run flags. Flags are not
// saved.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if profileFlag != "" {
		if err := cfg.UseProfile(profileFlag); err != nil {
			return nil, err
		}
	}
	if channelFlag != "" {
		cfg.SetChannel(channelFlag)
	}
	return cfg, nil
}

func openLog(cfg *config.Config) io.Closer {
	closer, err := app.SetupLogging(cfg.LogPath(), debugFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging disabled: %v\n", err)
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return io.NopCloser(nil)
	}
	return closer
}

func runApp(cfg *config.Config) error {
	logFile := openLog(cfg)
	defer logFile.Close()

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer application.Stop()

	if err := application.Start(); err != nil {
		slog.Error("application error", "error", err)
		return fmt.Errorf("application error: %w", err)
	}
	return nil
}
