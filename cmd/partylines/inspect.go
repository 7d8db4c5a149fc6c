package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/partylines/analysis/internal/storage/models"
	"github.com/partylines/analysis/internal/storage/sqlite"
	appLogger "github.com/partylines/analysis/pkg/logger"
)

func InspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [table]",
		Short: "List the tables and columns of the source database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			defer appLogger.Sync()

			db, err := sqlite.NewClient(cfg.SQLite.Path, retryConfig(cfg.Retry))
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if len(args) == 1 {
				cols, err := db.ListColumns(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), columnTable(cols))
				return nil
			}

			tables, err := db.ListTables(ctx)
			if err != nil {
				return err
			}
			for _, t := range tables {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d rows)\n", t.Name, t.RowCount)
				fmt.Fprintln(cmd.OutOrStdout(), columnTable(t.Columns))
			}
			return nil
		},
	}
}

func columnTable(cols []models.Column) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("column", "type", "not null", "pk")
	for _, c := range cols {
		t.Row(c.Name, c.Type, strconv.FormatBool(c.NotNull), strconv.FormatBool(c.PrimaryKey))
	}
	return t.String()
}
