// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/advisory-engine/internal/mine"
	"github.com/pdiddy/advisory-engine/pkg/types"
)

var mineCmd = &cobra.Command{
	Use:   "mine [file]",
	Short: "Segment specialist feedback into change proposals",
	Long: `Mine reads raw reviewer feedback from a file (or stdin) and segments it
into atomic change proposals. Feedback may arrive as structured JSON,
labeled sections, numbered headings, finding blocks, or free-form lists;
the miner picks the first structure that matches. Approvals and
confirmations of earlier feedback yield no proposals.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMine,
}

func runMine(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	raw, err := readInput(path)
	if err != nil {
		return err
	}

	specialist, _ := cmd.Flags().GetString("specialist")
	stageID, _ := cmd.Flags().GetString("stage")
	format, _ := cmd.Flags().GetString("format")

	proposals := mine.Mine(raw, specialist, stageID)
	return writeProposals(proposals, format)
}

func writeProposals(proposals []types.ChangeProposal, format string) error {
	switch format {
	case "yaml":
		data, err := yaml.Marshal(proposals)
		if err != nil {
			return fmt.Errorf("encoding proposals: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(proposals)
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Convert decided proposals to the editor exchange shape",
	Long: `Export reads a proposal list (YAML or JSON) with user decisions attached
and emits the JSON shape consumed by the document editor. Only accepted
and modified proposals are included; a modified proposal carries the
user's replacement text.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	raw, err := readInput(path)
	if err != nil {
		return err
	}

	var proposals []types.ChangeProposal
	if err := yaml.Unmarshal([]byte(raw), &proposals); err != nil {
		return fmt.Errorf("parsing proposals: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(types.ForEditor(proposals))
}

func init() {
	mineCmd.Flags().String("specialist", "reviewer", "name of the specialist that produced the feedback")
	mineCmd.Flags().String("stage", "review", "stage id used to derive proposal identifiers")
	mineCmd.Flags().String("format", "yaml", "output format: yaml or json")

	rootCmd.AddCommand(mineCmd)
	rootCmd.AddCommand(exportCmd)
}
