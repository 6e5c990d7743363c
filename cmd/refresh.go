package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sena/ustudy/internal/builder"
	"github.com/sena/ustudy/internal/config"
	"github.com/sena/ustudy/internal/models"
	"github.com/sena/ustudy/internal/output"
)

var refreshCmd = &cobra.Command{
	Use:     "refresh",
	GroupID: "course",
	Short:   "Re-check completion records for the tracked courses",
	RunE:    runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	user, err := cfg.Active()
	if err != nil {
		return err
	}
	if len(user.Courses) == 0 {
		output.Info("no courses configured (run: ustudy configure)")
		return nil
	}
	client, err := clientFor(user)
	if err != nil {
		return err
	}

	b := builder.New(client, cfg.GetSleep())
	for _, course := range user.Courses {
		if err := b.Refresh(cmd.Context(), course); err != nil {
			return fmt.Errorf("refresh %q: %w", course.Name, err)
		}
	}
	models.PruneCourses(user.Courses)

	if err := config.Save(configDir, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	output.Success("Refreshed: %d pending section(s) remain", models.PendingSections(user.Courses))
	return nil
}
