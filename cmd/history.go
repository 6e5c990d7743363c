package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sena/ustudy/internal/output"
	"github.com/sena/ustudy/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:     "history",
	GroupID: "run",
	Short:   "List recorded submission attempts",
	RunE:    runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "number of entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	hist, err := store.Open(configDir)
	if err != nil {
		return err
	}
	defer hist.Close()

	subs, err := hist.Tail(historyLimit)
	if err != nil {
		return err
	}
	fmt.Print(output.RenderHistory(subs))
	return nil
}
