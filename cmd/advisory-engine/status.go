// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/advisory-engine/internal/extract"
)

var statusCmd = &cobra.Command{
	Use:   "status [file]",
	Short: "Parse a dossier verdict from raw intake output",
	Long: `Status reads raw model output from a file (or stdin) and parses the
dossier completeness verdict. Complete verdicts print the dossier summary
and structured facts; incomplete verdicts print the clarification request.
Output that carries no recognizable verdict is reported as unparseable.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	raw, err := readInput(path)
	if err != nil {
		return err
	}

	outcome := extract.ParseStatus(raw)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(statusReport{
		Status:          string(outcome.Kind),
		Summary:         outcome.Summary,
		Facts:           outcome.Facts,
		FollowUpSubject: outcome.FollowUpSubject,
		FollowUpBody:    outcome.FollowUpBody,
	}); err != nil {
		return fmt.Errorf("writing verdict: %w", err)
	}

	strict, _ := cmd.Flags().GetBool("strict")
	if strict && outcome.Kind != extract.StatusComplete {
		return fmt.Errorf("dossier verdict is %s", outcome.Kind)
	}
	return nil
}

// statusReport is the CLI output shape for a parsed verdict.
type statusReport struct {
	Status          string         `json:"status"`
	Summary         string         `json:"summary,omitempty"`
	Facts           map[string]any `json:"facts,omitempty"`
	FollowUpSubject string         `json:"follow_up_subject,omitempty"`
	FollowUpBody    string         `json:"follow_up_body,omitempty"`
}

func init() {
	statusCmd.Flags().Bool("strict", false, "exit nonzero unless the verdict is complete")

	rootCmd.AddCommand(statusCmd)
}
