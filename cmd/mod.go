package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriTwitch/internal/twitch"
)

var modCmd = &cobra.Command{
	Use:   "mod <username>",
	Short: "Grant moderator on the current channel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runModeratorChange(cmd.Context(), args[0], (*twitch.Executor).Mod, "is now a moderator of")
	},
}

var unmodCmd = &cobra.Command{
	Use:   "unmod <username>",
	Short: "Revoke moderator on the current channel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runModeratorChange(cmd.Context(), args[0], (*twitch.Executor).Unmod, "is no longer a moderator of")
	},
}

func runModeratorChange(ctx context.Context, username string, change func(*twitch.Executor, context.Context, string) error, done string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	executor, err := newExecutor(cfg)
	if err != nil {
		return err
	}
	defer openLog(cfg).Close()

	ctx, cancel := context.WithTimeout(ctx, execTimeout)
	defer cancel()

	if err := change(executor, ctx, username); err != nil {
		return err
	}
	fmt.Printf("%s %s #%s\n", username, done, executor.Channel())
	return nil
}

func init() {
	rootCmd.AddCommand(modCmd)
	rootCmd.AddCommand(unmodCmd)
}
