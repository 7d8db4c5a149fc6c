package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/partylines/analysis/internal/party"
	"github.com/partylines/analysis/internal/storage/models"
	"github.com/partylines/analysis/pkg/logger"
	"github.com/partylines/analysis/pkg/retry"
)

type Client struct {
	db    *sql.DB
	retry retry.Config
}

// NewClient opens the database read-only. The analysis never writes to it.
func NewClient(dbPath string, retryCfg retry.Config) (*Client, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if retryCfg.Retryable == nil {
		retryCfg.Retryable = IsBusy
	}
	if retryCfg.Logger == nil {
		retryCfg.Logger = logger.Named("sqlite")
	}

	c := &Client{db: db, retry: retryCfg}

	err = retry.Do(context.Background(), c.retry, func() error {
		return db.Ping()
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", dbPath, err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return c, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

// IsBusy reports whether err is a transient lock conflict.
func IsBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}

// LoadRecords runs a query returning (text, label) rows. NULL text becomes
// an empty string; an unrecognised label fails the whole load.
func (c *Client) LoadRecords(ctx context.Context, query string) ([]models.Record, error) {
	records, err := retry.DoWithResult(ctx, c.retry, func() ([]models.Record, error) {
		return c.loadRecords(ctx, query)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Records loaded", zap.Int("count", len(records)))
	return records, nil
}

func (c *Client) loadRecords(ctx context.Context, query string) ([]models.Record, error) {
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	if len(cols) != 2 {
		return nil, fmt.Errorf("record query must return 2 columns (text, label), got %d", len(cols))
	}

	var records []models.Record
	for rows.Next() {
		var text, label sql.NullString
		if err := rows.Scan(&text, &label); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		l, err := party.Parse(label.String)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(records)+1, err)
		}

		records = append(records, models.Record{Text: text.String, Label: l})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return records, nil
}

// ListTables returns the user tables with their columns and row counts.
func (c *Client) ListTables(ctx context.Context) ([]models.Table, error) {
	query := `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		names = append(names, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tables: %w", err)
	}

	tables := make([]models.Table, 0, len(names))
	for _, name := range names {
		columns, err := c.ListColumns(ctx, name)
		if err != nil {
			return nil, err
		}

		var count int64
		err = c.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(name))).Scan(&count)
		if err != nil {
			return nil, fmt.Errorf("failed to count rows of %s: %w", name, err)
		}

		tables = append(tables, models.Table{Name: name, RowCount: count, Columns: columns})
	}

	return tables, nil
}

func (c *Client) ListColumns(ctx context.Context, table string) ([]models.Column, error) {
	rows, err := c.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("failed to get columns of %s: %w", table, err)
	}
	defer rows.Close()

	var columns []models.Column
	for rows.Next() {
		var (
			cid        int
			col        models.Column
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &defaultVal, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.NotNull = notNull != 0
		col.PrimaryKey = pk != 0
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate columns: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}

	return columns, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
