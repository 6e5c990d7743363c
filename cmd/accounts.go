package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sena/ustudy/internal/config"
	"github.com/sena/ustudy/internal/output"
)

var accountsCmd = &cobra.Command{
	Use:     "accounts",
	GroupID: "account",
	Short:   "List stored accounts",
	RunE:    runAccountsList,
}

var accountsUseCmd = &cobra.Command{
	Use:   "use <username>",
	Short: "Switch the active account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountsUse,
}

var accountsRemoveCmd = &cobra.Command{
	Use:     "remove <username>",
	Aliases: []string{"rm"},
	Short:   "Remove a stored account",
	Args:    cobra.ExactArgs(1),
	RunE:    runAccountsRemove,
}

var accountsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the active account's token is still valid",
	RunE:  runAccountsCheck,
}

func init() {
	accountsCmd.AddCommand(accountsUseCmd, accountsRemoveCmd, accountsCheckCmd)
	rootCmd.AddCommand(accountsCmd)
}

func runAccountsList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(cfg.Users) == 0 {
		output.Info("no accounts stored (run: ustudy login)")
		return nil
	}

	names := make([]string, 0, len(cfg.Users))
	for name := range cfg.Users {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		user := cfg.Users[name]
		marker := " "
		if name == cfg.ActiveUser {
			marker = "*"
		}
		output.Info("%s %s (%s, site %s, %d courses)", marker, name, user.Name, user.Site, len(user.Courses))
	}
	return nil
}

func runAccountsUse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	username := args[0]
	if _, ok := cfg.Users[username]; !ok {
		return fmt.Errorf("account %q not found", username)
	}
	cfg.ActiveUser = username
	if err := config.Save(configDir, cfg); err != nil {
		return err
	}
	output.Success("Active account is now %s", username)
	return nil
}

func runAccountsRemove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	username := args[0]
	if _, ok := cfg.Users[username]; !ok {
		return fmt.Errorf("account %q not found", username)
	}
	delete(cfg.Users, username)
	if cfg.ActiveUser == username {
		cfg.ActiveUser = ""
	}
	if err := config.Save(configDir, cfg); err != nil {
		return err
	}
	output.Success("Removed account %s", username)
	return nil
}

func runAccountsCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	user, err := cfg.Active()
	if err != nil {
		return err
	}
	client, err := clientFor(user)
	if err != nil {
		return err
	}
	ok, err := client.CheckToken(cmd.Context(), user.Token)
	if err != nil {
		return err
	}
	if !ok {
		output.Warning("token for %s is no longer valid (run: ustudy login)", cfg.ActiveUser)
		return nil
	}
	output.Success("token for %s is valid", cfg.ActiveUser)
	return nil
}
