package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/sena/ustudy/internal/config"
	"github.com/sena/ustudy/internal/output"
	"github.com/sena/ustudy/internal/ulapi"
)

var loginCmd = &cobra.Command{
	Use:     "login",
	GroupID: "account",
	Short:   "Log in to a platform account and store its session",
	RunE:    runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var site, username, password string
	siteOptions := make([]huh.Option[string], 0)
	for _, name := range ulapi.SiteNames() {
		siteOptions = append(siteOptions, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Site").
				Options(siteOptions...).
				Value(&site),
			huh.NewInput().
				Title("Username").
				Validate(requireValue("username")).
				Value(&username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Validate(requireValue("password")).
				Value(&password),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	user := &config.UserConfig{Site: site, Username: username, Password: password}
	if err := config.ValidateUser(user); err != nil {
		return fmt.Errorf("invalid account: %w", err)
	}

	client, err := clientFor(user)
	if err != nil {
		return err
	}
	result, err := client.Login(cmd.Context(), username, password)
	if err != nil {
		return fmt.Errorf("login %q: %w", username, err)
	}

	user.Name = result.Name
	user.Token = result.Token
	user.Cookies = result.Cookies
	if user.Name == "" {
		if err := fillDisplayName(cmd.Context(), client, user); err != nil {
			output.Warning("could not fetch display name: %v", err)
		}
	}

	cfg.Users[username] = user
	cfg.ActiveUser = username
	if err := config.Save(configDir, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	output.Success("Logged in as %s (%s)", username, user.Name)
	return nil
}

func fillDisplayName(ctx context.Context, client *ulapi.Client, user *config.UserConfig) error {
	info, err := client.UserInfo(ctx)
	if err != nil {
		return err
	}
	user.Name = info.Name
	return nil
}

func requireValue(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
