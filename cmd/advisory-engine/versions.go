// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "Manage a report's document version ledger",
	Long: `Versions tracks the advisory document of a report across pipeline stages.
Every recorded stage result gets a monotonically increasing version; the
ledger keeps an append-only history and a pointer to the authoritative
version, which can be moved back to any earlier version.`,
}

var versionsRecordCmd = &cobra.Command{
	Use:   "record <report-id> <stage> [file]",
	Short: "Record new document content for a stage",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runVersionsRecord,
}

func runVersionsRecord(cmd *cobra.Command, args []string) error {
	reportID, stageKey := args[0], args[1]
	path := ""
	if len(args) > 2 {
		path = args[2]
	}
	content, err := readInput(path)
	if err != nil {
		return err
	}

	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	snap, err := store.Record(context.Background(), reportID, stageKey, content)
	if err != nil {
		return err
	}
	fmt.Printf("recorded %s/%s as version %d\n", reportID, snap.StageKey, snap.Version)
	return nil
}

var versionsLatestCmd = &cobra.Command{
	Use:   "latest <report-id>",
	Short: "Print the authoritative document content",
	Args:  cobra.ExactArgs(1),
	RunE:  runVersionsLatest,
}

func runVersionsLatest(cmd *cobra.Command, args []string) error {
	reportID := args[0]

	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	doc, err := store.Document(context.Background(), reportID)
	if err != nil {
		return err
	}
	latest, ok := doc.Latest()
	if !ok {
		return fmt.Errorf("report %s has no document content", reportID)
	}
	fmt.Print(latest.Content)
	return nil
}

var versionsHistoryCmd = &cobra.Command{
	Use:   "history <report-id>",
	Short: "List every version ever recorded for a report",
	Args:  cobra.ExactArgs(1),
	RunE:  runVersionsHistory,
}

func runVersionsHistory(cmd *cobra.Command, args []string) error {
	reportID := args[0]

	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	doc, err := store.Document(context.Background(), reportID)
	if err != nil {
		return err
	}

	pointerVersion := 0
	if ptr, ok := doc.Pointer(); ok {
		pointerVersion = ptr.Version
	}

	for _, e := range doc.History() {
		marker := " "
		if e.Version == pointerVersion {
			marker = "*"
		}
		fmt.Printf("%s v%-4d %-20s %s\n", marker, e.Version, e.StageKey, e.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return nil
}

var versionsRestoreCmd = &cobra.Command{
	Use:   "restore <report-id> <version>",
	Short: "Move the pointer back to an earlier version",
	Long: `Restore makes an earlier version authoritative again. The restore itself
is recorded as a new history entry under a fresh version number; nothing
is ever rewritten or deleted.`,
	Args: cobra.ExactArgs(2),
	RunE: runVersionsRestore,
}

func runVersionsRestore(cmd *cobra.Command, args []string) error {
	reportID := args[0]
	version, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", args[1], err)
	}

	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	snap, err := store.Restore(context.Background(), reportID, version)
	if err != nil {
		return err
	}
	fmt.Printf("restored %s to version %d content (stage %s) as version %d\n",
		reportID, version, snap.StageKey, snap.Version)
	return nil
}

func init() {
	versionsCmd.AddCommand(versionsRecordCmd)
	versionsCmd.AddCommand(versionsLatestCmd)
	versionsCmd.AddCommand(versionsHistoryCmd)
	versionsCmd.AddCommand(versionsRestoreCmd)

	rootCmd.AddCommand(versionsCmd)
}
