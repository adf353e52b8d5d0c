package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tb0hdan/fmg-script-history/pkg/config"
	"github.com/tb0hdan/fmg-script-history/pkg/models"
	"github.com/tb0hdan/fmg-script-history/pkg/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and manage the collection run audit log",
}

// historyStore opens the audit database named by --history-db or
// FMG_HISTORY_DB. History commands never create implicit state, so a
// missing path is an error rather than a default location.
func historyStore(cmd *cobra.Command) (storage.Storage, error) {
	envSrc, err := config.NewEnvSource(configFile)
	if err != nil {
		return nil, err
	}

	resolver := config.NewResolver(config.NewFlagSource(cmd.Flags()), envSrc)
	path := resolver.Lookup(config.KeyHistoryDB)
	if path == "" {
		return nil, errors.New("no audit database configured (set --history-db or FMG_HISTORY_DB)")
	}

	return storage.NewSQLiteStorage(storage.Config{DatabasePath: path, Debug: verbose})
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded collection runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := historyStore(cmd)
		if err != nil {
			return err
		}
		defer func() {
			_ = store.Close()
		}()

		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")
		script, _ := cmd.Flags().GetString("script")

		var runs []models.CollectionRun
		var total int64
		if script != "" {
			runs, err = store.GetCollectionRunsByScript(cmd.Context(), script, limit)
			total = int64(len(runs))
		} else {
			runs, total, err = store.GetCollectionRuns(cmd.Context(), limit, offset)
		}
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		if len(runs) == 0 {
			pterm.Info.Println("No collection runs recorded")
			return nil
		}

		data := pterm.TableData{{"ID", "When (UTC)", "Host", "Platform", "Script", "Devices", "Rows", "Status"}}
		for _, run := range runs {
			status := "ok"
			if !run.Success {
				status = "failed"
			}
			data = append(data, []string{
				strconv.FormatUint(uint64(run.ID), 10),
				run.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
				run.Host,
				run.Platform,
				run.Script,
				strconv.Itoa(run.DeviceCount),
				strconv.Itoa(run.RowCount),
				status,
			})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}
		pterm.Info.Printfln("%d of %d runs", len(runs), total)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one collection run in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := historyStore(cmd)
		if err != nil {
			return err
		}
		defer func() {
			_ = store.Close()
		}()

		id, err := parseRunID(args[0])
		if err != nil {
			return err
		}

		run, err := store.GetCollectionRun(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get run %d: %w", id, err)
		}

		pretty, err := json.MarshalIndent(run, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(pretty))
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one collection run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := historyStore(cmd)
		if err != nil {
			return err
		}
		defer func() {
			_ = store.Close()
		}()

		id, err := parseRunID(args[0])
		if err != nil {
			return err
		}

		if err := store.DeleteCollectionRun(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete run %d: %w", id, err)
		}

		pterm.Success.Printfln("Deleted run %d", id)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded collection runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := historyStore(cmd)
		if err != nil {
			return err
		}
		defer func() {
			_ = store.Close()
		}()

		if err := store.DeleteAllCollectionRuns(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear runs: %w", err)
		}

		pterm.Success.Println("All run history cleared")
		return nil
	},
}

func parseRunID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid run id %q", arg)
	}
	return uint(id), nil
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "Maximum runs to list")
	historyListCmd.Flags().Int("offset", 0, "Runs to skip")
	historyListCmd.Flags().String("script", "", "Only list runs for this script")
}
