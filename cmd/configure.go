package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/sena/ustudy/internal/builder"
	"github.com/sena/ustudy/internal/config"
	"github.com/sena/ustudy/internal/models"
	"github.com/sena/ustudy/internal/output"
)

var configureCmd = &cobra.Command{
	Use:     "configure",
	GroupID: "course",
	Short:   "Pick courses and textbooks to track, then build the content tree",
	RunE:    runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
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
	ctx := cmd.Context()

	courses, err := client.Courses(ctx)
	if err != nil {
		return fmt.Errorf("list courses: %w", err)
	}
	if len(courses) == 0 {
		output.Warning("no enrolled courses found")
		return nil
	}

	courseOptions := make([]huh.Option[int64], 0, len(courses))
	courseByID := make(map[int64]int, len(courses))
	for i, c := range courses {
		courseOptions = append(courseOptions, huh.NewOption(fmt.Sprintf("[%d] %s", c.ID, c.Name), c.ID))
		courseByID[c.ID] = i
	}

	var courseIDs []int64
	courseForm := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[int64]().
			Title("Courses to track").
			Options(courseOptions...).
			Value(&courseIDs),
	))
	if err := courseForm.Run(); err != nil {
		return err
	}
	if len(courseIDs) == 0 {
		output.Info("nothing selected")
		return nil
	}

	selected := make(map[int64]*models.Course, len(courseIDs))
	for _, id := range courseIDs {
		info := courses[courseByID[id]]
		course := &models.Course{
			CourseID:    info.ID,
			Name:        info.Name,
			ClassID:     info.ClassID,
			ClassUserID: info.ClassUserID,
			Textbooks:   make(map[int64]*models.Textbook),
		}

		textbooks, err := client.Textbooks(ctx, info.ID)
		if err != nil {
			return fmt.Errorf("list textbooks for %q: %w", info.Name, err)
		}
		if len(textbooks) == 0 {
			output.Warning("%q has no textbooks, skipping", info.Name)
			continue
		}

		tbOptions := make([]huh.Option[int64], 0, len(textbooks))
		tbByID := make(map[int64]int, len(textbooks))
		for i, tb := range textbooks {
			tbOptions = append(tbOptions, huh.NewOption(fmt.Sprintf("[%d] %s", tb.TextbookID, tb.Name), tb.TextbookID))
			tbByID[tb.TextbookID] = i
		}
		var tbIDs []int64
		tbForm := huh.NewForm(huh.NewGroup(
			huh.NewMultiSelect[int64]().
				Title(fmt.Sprintf("Textbooks for %q", info.Name)).
				Options(tbOptions...).
				Value(&tbIDs),
		))
		if err := tbForm.Run(); err != nil {
			return err
		}

		for _, tbID := range tbIDs {
			tbInfo := textbooks[tbByID[tbID]]
			course.Textbooks[tbID] = &models.Textbook{
				TextbookID: tbInfo.TextbookID,
				Name:       tbInfo.Name,
				Status:     tbInfo.Status,
				Limit:      tbInfo.Limit,
			}
		}
		if len(course.Textbooks) > 0 {
			selected[id] = course
		}
	}
	if len(selected) == 0 {
		output.Info("nothing selected")
		return nil
	}

	output.Info("building content trees...")
	b := builder.New(client, cfg.GetSleep())
	for _, course := range selected {
		if err := b.Build(ctx, course); err != nil {
			return fmt.Errorf("build %q: %w", course.Name, err)
		}
	}

	user.Courses = selected
	if err := config.Save(configDir, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	output.Success("Tracking %d course(s), %d pending section(s)", len(selected), models.PendingSections(selected))
	return nil
}
