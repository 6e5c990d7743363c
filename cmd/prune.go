package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sena/ustudy/internal/config"
	"github.com/sena/ustudy/internal/models"
	"github.com/sena/ustudy/internal/output"
)

var pruneCmd = &cobra.Command{
	Use:     "prune",
	GroupID: "course",
	Short:   "Drop completed pages and the branches they empty out",
	RunE:    runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)
}

func runPrune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	user, err := cfg.Active()
	if err != nil {
		return err
	}

	models.PruneCourses(user.Courses)

	if err := config.Save(configDir, cfg); err != nil {
		return err
	}
	output.Success("Pruned: %d course(s), %d pending section(s) remain",
		len(user.Courses), models.PendingSections(user.Courses))
	return nil
}
