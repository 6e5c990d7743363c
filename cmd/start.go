package cmd

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/sena/ustudy/internal/config"
	"github.com/sena/ustudy/internal/driver"
	"github.com/sena/ustudy/internal/output"
	"github.com/sena/ustudy/internal/store"
	"github.com/sena/ustudy/internal/synth"
)

var startCmd = &cobra.Command{
	Use:     "start",
	GroupID: "run",
	Short:   "Submit study records for every pending section",
	RunE:    runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
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
	if err := config.ValidateStudyTime(cfg.StudyTime); err != nil {
		return fmt.Errorf("study time config: %w", err)
	}

	client, err := clientFor(user)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	// The sync payload carries the learner's display name; fetch it fresh
	// so a stale config cannot poison every submission.
	username := user.Name
	if info, err := client.UserInfo(ctx); err == nil && info.Name != "" {
		username = info.Name
	} else if username == "" {
		return fmt.Errorf("cannot determine learner name: %w", err)
	}

	hist, err := store.Open(configDir)
	if err != nil {
		return err
	}
	defer hist.Close()

	seed := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	sy := synth.New(seed, time.Now, cfg.StudyTime)
	d := driver.New(client, sy, hist, cfg.GetSleep(), username)

	stats, err := d.Run(ctx, user.Courses)
	if err != nil {
		return err
	}

	output.Success("Submitted %d section(s)", stats.Submitted)
	if stats.Failed > 0 || stats.Skipped > 0 {
		output.Warning("%d failed, %d skipped", stats.Failed, stats.Skipped)
	}
	output.Info("run 'ustudy refresh' to confirm completion, then 'ustudy prune'")
	return nil
}
