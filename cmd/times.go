package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/sena/ustudy/internal/config"
	"github.com/sena/ustudy/internal/output"
)

var timesCmd = &cobra.Command{
	Use:     "times",
	GroupID: "course",
	Short:   "Edit the reported study-time ranges per content category",
	RunE:    runTimes,
}

func init() {
	rootCmd.AddCommand(timesCmd)
}

func runTimes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	categories := []struct {
		name string
		rng  *config.StudyRange
	}{
		{"question", &cfg.StudyTime.Question},
		{"document", &cfg.StudyTime.Document},
		{"content", &cfg.StudyTime.Content},
	}

	var category string
	options := make([]huh.Option[string], 0, len(categories))
	for _, c := range categories {
		options = append(options, huh.NewOption(
			fmt.Sprintf("%s (currently %d-%d s)", c.name, c.rng.Min, c.rng.Max), c.name))
	}
	pick := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Category").
			Options(options...).
			Value(&category),
	))
	if err := pick.Run(); err != nil {
		return err
	}

	var target *config.StudyRange
	for _, c := range categories {
		if c.name == category {
			target = c.rng
		}
	}

	minStr := strconv.Itoa(target.Min)
	maxStr := strconv.Itoa(target.Max)
	edit := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Minimum seconds (0-3600)").
			Validate(validateSeconds).
			Value(&minStr),
		huh.NewInput().
			Title("Maximum seconds (0-3600)").
			Validate(validateSeconds).
			Value(&maxStr),
	))
	if err := edit.Run(); err != nil {
		return err
	}

	rng := config.StudyRange{}
	rng.Min, _ = strconv.Atoi(minStr)
	rng.Max, _ = strconv.Atoi(maxStr)

	proposed := cfg.StudyTime
	switch category {
	case "question":
		proposed.Question = rng
	case "document":
		proposed.Document = rng
	case "content":
		proposed.Content = rng
	}
	if err := config.ValidateStudyTime(proposed); err != nil {
		return fmt.Errorf("invalid range: %w", err)
	}

	cfg.StudyTime = proposed
	if err := config.Save(configDir, cfg); err != nil {
		return err
	}
	output.Success("%s study time set to %d-%d seconds", category, rng.Min, rng.Max)
	return nil
}

func validateSeconds(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 3600 {
		return fmt.Errorf("enter a number between 0 and 3600")
	}
	return nil
}
