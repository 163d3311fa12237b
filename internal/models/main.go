// Package models defines the core data structures for plant records,
// filter selections and user sessions.
package models

import (
	"sort"
	"strings"
)

// Well-known column names of the plant table. Any other column in the
// source file is passed through verbatim.
const (
	ColName            = "Name"
	ColBotanical       = "Botanisch"
	ColLocation        = "Standort"
	ColClimbingType    = "Klettertyp"
	ColWater           = "Wasserbedarf"
	ColWinterHardiness = "Winterhaerte"
	ColSoil            = "Boden"
	ColGrowth          = "Wuchsstaerke"
	ColEvergreen       = "Immergruen"
	ColInsectFriendly  = "Insektenfreundlich"
	ColImage           = "Bild_URL"
	ColDescription     = "Beschreibung"
)

// Cell is a single optional text value of the table.
type Cell struct {
	// Value holds the raw text as read from the source file.
	Value string
	// Valid is false when the field was empty or the column is missing.
	Valid bool
}

// Text returns a valid Cell holding s.
func Text(s string) Cell {
	return Cell{Value: s, Valid: true}
}

// Or returns the cell value, or def when the cell is missing or blank.
func (c Cell) Or(def string) string {
	if !c.Valid || strings.TrimSpace(c.Value) == "" {
		return def
	}
	return c.Value
}

// Record is one row of the plant table.
type Record struct {
	// Index is the 0-based position of the row in the source file.
	Index int
	// Fields maps column name to cell.
	Fields map[string]Cell
}

// Get returns the cell for col. A missing column yields an invalid Cell.
func (r Record) Get(col string) Cell {
	if r.Fields == nil {
		return Cell{}
	}
	return r.Fields[col]
}

// Table is an ordered, read-only set of records sharing one column list.
type Table struct {
	// Columns lists the column names in source order.
	Columns []string
	// Records holds the rows in source order.
	Records []Record
}

// NewTable returns an empty table with the given columns.
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns, Records: []Record{}}
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// HasColumn reports whether col is part of the table.
func (t *Table) HasColumn(col string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Select returns a new table view holding the records for which keep
// returns true, in their original order. Records are shared, not copied.
func (t *Table) Select(keep func(Record) bool) *Table {
	out := &Table{Records: []Record{}}
	if t == nil {
		return out
	}
	out.Columns = t.Columns
	for _, r := range t.Records {
		if keep(r) {
			out.Records = append(out.Records, r)
		}
	}
	return out
}

// Record returns the record whose source Index equals index.
func (t *Table) Record(index int) (Record, bool) {
	if t == nil {
		return Record{}, false
	}
	for _, r := range t.Records {
		if r.Index == index {
			return r, true
		}
	}
	return Record{}, false
}

// Distinct returns the sorted set of distinct non-empty values of col.
// It returns nil when the column does not exist.
func (t *Table) Distinct(col string) []string {
	if !t.HasColumn(col) {
		return nil
	}
	seen := make(map[string]struct{})
	values := []string{}
	for _, r := range t.Records {
		c := r.Get(col)
		if !c.Valid || c.Value == "" {
			continue
		}
		if _, ok := seen[c.Value]; ok {
			continue
		}
		seen[c.Value] = struct{}{}
		values = append(values, c.Value)
	}
	sort.Strings(values)
	return values
}

// Label turns a column name into a display label.
func Label(col string) string {
	return strings.ReplaceAll(col, "_", " ")
}
