package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sena/ustudy/internal/output"
)

var showCmd = &cobra.Command{
	Use:     "show",
	GroupID: "course",
	Short:   "Print the tracked course trees with completion markers",
	RunE:    runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	user, err := cfg.Active()
	if err != nil {
		return err
	}
	fmt.Print(output.RenderCourses(user.Courses))
	return nil
}
