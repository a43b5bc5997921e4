// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var outputCmd = &cobra.Command{
	Use:   "output",
	Short: "Manage raw stage outputs for a report",
	Long: `Output stores and retrieves the raw model output of pipeline stages.
Recorded outputs drive the gate: a stage may run once its prerequisite
has output on file.`,
}

var outputSaveCmd = &cobra.Command{
	Use:   "save <report-id> <stage> [file]",
	Short: "Record a stage's raw output from a file or stdin",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runOutputSave,
}

func runOutputSave(cmd *cobra.Command, args []string) error {
	reportID, stageKey := args[0], args[1]
	path := ""
	if len(args) > 2 {
		path = args[2]
	}
	raw, err := readInput(path)
	if err != nil {
		return err
	}

	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveOutput(context.Background(), reportID, stageKey, raw); err != nil {
		return err
	}
	fmt.Printf("saved output for %s/%s (%d bytes)\n", reportID, stageKey, len(raw))
	return nil
}

var outputShowCmd = &cobra.Command{
	Use:   "show <report-id> <stage>",
	Short: "Print a stage's recorded raw output",
	Args:  cobra.ExactArgs(2),
	RunE:  runOutputShow,
}

func runOutputShow(cmd *cobra.Command, args []string) error {
	reportID, stageKey := args[0], args[1]

	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	raw, ok, err := store.Output(context.Background(), reportID, stageKey)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no output recorded for %s/%s", reportID, stageKey)
	}
	fmt.Print(raw)
	return nil
}

func init() {
	outputCmd.AddCommand(outputSaveCmd)
	outputCmd.AddCommand(outputShowCmd)

	rootCmd.AddCommand(outputCmd)
}
