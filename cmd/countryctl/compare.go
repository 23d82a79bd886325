package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bihua-university/countries/internal/document"
	"github.com/bihua-university/countries/internal/task"
)

var (
	compareFields   []string
	compareWait     bool
	compareInterval time.Duration
	compareTimeout  time.Duration
)

var compareCmd = &cobra.Command{
	Use:   "compare A B",
	Short: "Compare two countries",
	Long: `Submits a comparison of countries A and B on the given numeric fields and,
with --wait, polls until it finished. Every compared field names the country
with the larger value, or Equal.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringSliceVar(&compareFields, "field", []string{"area", "population"}, "field to compare, repeatable")
	compareCmd.Flags().BoolVarP(&compareWait, "wait", "w", true, "poll until the comparison finished")
	compareCmd.Flags().DurationVar(&compareInterval, "interval", time.Second, "poll interval")
	compareCmd.Flags().DurationVar(&compareTimeout, "timeout", time.Minute, "give up waiting after this long")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	if _, err := document.ParsePathList(compareFields); err != nil {
		return err
	}

	ctx := cmd.Context()
	client := task.NewClient(serverURL)
	client.PollInterval = compareInterval

	id, err := client.Submit(ctx, args[0], args[1], compareFields)
	if err != nil {
		return err
	}
	if !compareWait {
		cmd.Println(id)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, compareTimeout)
	defer cancel()
	t, err := client.Wait(ctx, id)
	if err != nil {
		return fmt.Errorf("wait for %s: %w", id, err)
	}
	if t.Status == task.Failed {
		return fmt.Errorf("comparison %s failed: %s", id, t.Error)
	}
	return printJSON(cmd, t.Result)
}
