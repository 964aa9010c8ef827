package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriTwitch/internal/config"
)

var useCmd = &cobra.Command{
	Use:   "use [profile-name]",
	Short: "Switch to a profile and start the chat app",
	Long:  `Make the specified profile the active one and immediately start the chat application.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := cfg.UseProfile(args[0]); err != nil {
			return err
		}

		// Save config with new active profile
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		// The channel flag applies to this run only.
		if channelFlag != "" {
			cfg.SetChannel(channelFlag)
		}
		return runApp(cfg)
	},
}

func init() {
	rootCmd.AddCommand(useCmd)
}
