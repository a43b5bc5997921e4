// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/advisory-engine/internal/gate"
	"github.com/pdiddy/advisory-engine/pkg/types"
)

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Inspect and manage stage progression for a report",
	Long: `Gate evaluates which pipeline stages may run for a report, based on the
recorded stage outputs. The intake stage's dossier verdict gates the rest
of the pipeline: an incomplete dossier blocks generation until the
clarification arrives.`,
}

var gateStatusCmd = &cobra.Command{
	Use:   "status <report-id>",
	Short: "Show per-stage runnability for a report",
	Args:  cobra.ExactArgs(1),
	RunE:  runGateStatus,
}

func runGateStatus(cmd *cobra.Command, args []string) error {
	reportID := args[0]

	store, stages, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	outputs, err := store.Outputs(context.Background(), reportID)
	if err != nil {
		return err
	}
	g, err := gate.New(stages, gate.MapSource(outputs))
	if err != nil {
		return err
	}

	for _, st := range stages {
		reason, err := g.BlockReason(st.Key)
		if err != nil {
			return err
		}

		state := "runnable"
		if reason != "" {
			state = "blocked: " + reason
		}
		if _, ran := outputs[st.Key]; ran {
			state = "ran, " + state
		}
		fmt.Printf("%-20s %s\n", st.Key, state)
	}

	for _, st := range stages {
		if st.Gate != types.GateStatus {
			continue
		}
		if summary, ok := g.Summary(st.Key); ok {
			fmt.Printf("\ndossier: %s\n", summary)
		}
	}
	return nil
}

var gateClearCmd = &cobra.Command{
	Use:   "clear <report-id> <stage>",
	Short: "Invalidate a stage and everything after it",
	Long: `Clear removes the recorded output and document content of the given stage
and every later stage, so the stage can be re-run. Version history is
preserved; re-runs keep counting from the report's highest version.`,
	Args: cobra.ExactArgs(2),
	RunE: runGateClear,
}

func runGateClear(cmd *cobra.Command, args []string) error {
	reportID, stageKey := args[0], args[1]

	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	cleared, err := store.ClearFrom(context.Background(), reportID, stageKey)
	if err != nil {
		return err
	}
	fmt.Printf("cleared: %s\n", strings.Join(cleared, ", "))
	return nil
}

func init() {
	gateCmd.AddCommand(gateStatusCmd)
	gateCmd.AddCommand(gateClearCmd)

	rootCmd.AddCommand(gateCmd)
}
