package models

import "github.com/partylines/analysis/internal/party"

// Record is one (text, label) row from a source query.
type Record struct {
	Text  string
	Label party.Label
}

type Table struct {
	Name     string
	RowCount int64
	Columns  []Column
}

type Column struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
}
