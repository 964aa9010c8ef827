package cmd

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Rorical/RoriTwitch/internal/config"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage Twitch profiles",
	Long:  `Manage the accounts, tokens and default channels RoriTwitch logs in with.`,
}

var listProfilesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		fmt.Printf("Active Profile: %s\n\n", cfg.ActiveProfile)
		fmt.Println("Available Profiles:")
		for _, name := range profileNames(cfg, "") {
			profile := cfg.Profiles[name]
			marker := ""
			if name == cfg.ActiveProfile {
				marker = " (active)"
			}
			fmt.Printf("  %s%s\n", name, marker)
			fmt.Printf("    Username: %s\n", orUnset(profile.Username))
			fmt.Printf("    Channel:  %s\n", orUnset(profile.Channel))
			fmt.Printf("    Token:    %s\n", config.MaskSecret(profile.Token))
			fmt.Println()
		}
		return nil
	},
}

var showProfileCmd = &cobra.Command{
	Use:   "show [profile-name]",
	Short: "Show profile details",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if len(args) > 0 {
			if err := cfg.UseProfile(args[0]); err != nil {
				return err
			}
		}

		fmt.Println(cfg.Summary())
		fmt.Printf("config: %s\n", cfg.Path())
		fmt.Printf("log:    %s\n", cfg.LogPath())
		return nil
	},
}

var addProfileCmd = &cobra.Command{
	Use:   "add [profile-name]",
	Short: "Add a new profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		var profileName string
		if len(args) > 0 {
			profileName = args[0]
		} else {
			prompt := promptui.Prompt{
				Label:    "Profile name",
				Validate: required("profile name"),
			}
			profileName, err = prompt.Run()
			if err != nil {
				return fmt.Errorf("prompt failed: %w", err)
			}
		}

		if _, exists := cfg.Profiles[profileName]; exists {
			return fmt.Errorf("profile '%s' already exists", profileName)
		}

		profile, err := promptProfile(config.DefaultProfile())
		if err != nil {
			return err
		}
		cfg.Profiles[profileName] = profile

		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Printf("Profile '%s' added successfully!\n", profileName)
		return nil
	},
}

var editProfileCmd = &cobra.Command{
	Use:   "edit [profile-name]",
	Short: "Edit an existing profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		profileName, err := pickProfile(cfg, args, "Select profile to edit", "")
		if err != nil {
			return err
		}

		profile, err := promptProfile(cfg.Profiles[profileName])
		if err != nil {
			return err
		}
		cfg.Profiles[profileName] = profile

		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Printf("Profile '%s' updated successfully!\n", profileName)
		return nil
	},
}

var deleteProfileCmd = &cobra.Command{
	Use:   "delete [profile-name]",
	Short: "Delete a profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		profileName, err := pickProfile(cfg, args, "Select profile to delete", "")
		if err != nil {
			return err
		}

		// Confirm deletion
		confirmPrompt := promptui.Prompt{
			Label:     fmt.Sprintf("Delete profile '%s'", profileName),
			IsConfirm: true,
		}
		if _, err := confirmPrompt.Run(); err != nil {
			fmt.Println("Deletion cancelled")
			return nil
		}

		delete(cfg.Profiles, profileName)
		if cfg.ActiveProfile == profileName {
			remaining := profileNames(cfg, "")
			if len(remaining) == 0 {
				// The config always keeps one profile.
				cfg.Profiles["default"] = config.DefaultProfile()
				remaining = []string{"default"}
			}
			cfg.ActiveProfile = remaining[0]
		}

		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Printf("Profile '%s' deleted successfully!\n", profileName)
		return nil
	},
}

var switchProfileCmd = &cobra.Command{
	Use:   "switch [profile-name]",
	Short: "Switch to a different profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if len(args) == 0 && len(profileNames(cfg, cfg.ActiveProfile)) == 0 {
			fmt.Println("No other profiles available to switch to")
			return nil
		}

		profileName, err := pickProfile(cfg, args, "Select profile to switch to", cfg.ActiveProfile)
		if err != nil {
			return err
		}
		if err := cfg.UseProfile(profileName); err != nil {
			return err
		}

		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Printf("Switched to profile '%s'\n", profileName)
		return nil
	},
}

// profileNames returns the sorted profile names, leaving out skip.
func profileNames(cfg *config.Config, skip string) []string {
	names := slices.Sorted(maps.Keys(cfg.Profiles))
	return slices.DeleteFunc(names, func(name string) bool { return name == skip })
}

// pickProfile returns the profile named in args, or asks for one.
func pickProfile(cfg *config.Config, args []string, label, skip string) (string, error) {
	if len(args) > 0 {
		if _, exists := cfg.Profiles[args[0]]; !exists {
			return "", fmt.Errorf("profile '%s' does not exist", args[0])
		}
		return args[0], nil
	}

	names := profileNames(cfg, skip)
	if len(names) == 0 {
		return "", errors.New("no profiles available")
	}

	prompt := promptui.Select{
		Label: label,
		Items: names,
	}
	_, name, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("selection failed: %w", err)
	}
	return name, nil
}

// promptProfile asks for every profile field, offering current values as
// defaults.
func promptProfile(current config.Profile) (config.Profile, error) {
	var (
		profile = current
		err     error
	)

	usernamePrompt := promptui.Prompt{
		Label:    "Twitch username",
		Default:  current.Username,
		Validate: required("username"),
	}
	if profile.Username, err = usernamePrompt.Run(); err != nil {
		return current, fmt.Errorf("prompt failed: %w", err)
	}

	tokenPrompt := promptui.Prompt{
		Label:   "OAuth token",
		Default: current.Token,
		Mask:    '*',
	}
	if profile.Token, err = tokenPrompt.Run(); err != nil {
		return current, fmt.Errorf("prompt failed: %w", err)
	}

	clientIDPrompt := promptui.Prompt{
		Label:   "Client ID (optional, read from the token if empty)",
		Default: current.ClientID,
	}
	if profile.ClientID, err = clientIDPrompt.Run(); err != nil {
		return current, fmt.Errorf("prompt failed: %w", err)
	}

	channelPrompt := promptui.Prompt{
		Label:   "Channel to join",
		Default: current.Channel,
	}
	if profile.Channel, err = channelPrompt.Run(); err != nil {
		return current, fmt.Errorf("prompt failed: %w", err)
	}

	profile.Username = strings.TrimSpace(profile.Username)
	profile.Token = strings.TrimSpace(profile.Token)
	profile.ClientID = strings.TrimSpace(profile.ClientID)
	profile.Channel = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(profile.Channel)), "#")
	return profile, nil
}

func required(field string) promptui.ValidateFunc {
	return func(input string) error {
		if strings.TrimSpace(input) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func orUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func init() {
	// Add subcommands to profile
	profileCmd.AddCommand(listProfilesCmd)
	profileCmd.AddCommand(showProfileCmd)
	profileCmd.AddCommand(addProfileCmd)
	profileCmd.AddCommand(editProfileCmd)
	profileCmd.AddCommand(deleteProfileCmd)
	profileCmd.AddCommand(switchProfileCmd)
}
