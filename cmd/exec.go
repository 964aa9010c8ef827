package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriTwitch/internal/commands"
	"github.com/Rorical/RoriTwitch/internal/config"
	"github.com/Rorical/RoriTwitch/internal/twitch"
)

const execTimeout = 30 * time.Second

var execCmd = &cobra.Command{
	Use:   "exec <command> [args...]",
	Short: "Run one moderation command without starting the chat app",
	Long: fmt.Sprintf(`Parse a single command line and run it against the profile's channel.

Supported commands: %s`, strings.Join(commands.Names(), ", ")),
	Example: `  roritwitch exec timeout someone 600 calm down
  roritwitch -c otherchannel exec slow 30`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		line := strings.TrimPrefix(strings.Join(args, " "), "/")
		parsed, err := commands.Parse(line)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		executor, err := newExecutor(cfg)
		if err != nil {
			return err
		}
		defer openLog(cfg).Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), execTimeout)
		defer cancel()

		if err := executor.Execute(ctx, parsed); err != nil {
			return err
		}
		fmt.Printf("/%s done on #%s\n", parsed.Name(), executor.Channel())
		return nil
	},
}

// newExecutor builds an executor for the active profile and channel.
func newExecutor(cfg *config.Config) (*twitch.Executor, error) {
	profile := cfg.Current()
	if profile.Token == "" {
		return nil, errors.New("the active profile has no token, run: roritwitch profile edit")
	}
	if profile.Channel == "" {
		return nil, errors.New("no channel selected, use --channel or set one in the profile")
	}
	client := twitch.NewClient(profile.Token, profile.ClientID)
	return twitch.NewExecutor(client, profile.Channel), nil
}

func init() {
	rootCmd.AddCommand(execCmd)
}
