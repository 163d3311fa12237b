// Package render turns filtered plant tables into display cards and HTML
// pages.
package render

import (
	"github.com/atinyakov/GreenFacade/internal/models"
)

// GridColumns is the number of cards per grid row.
const GridColumns = 3

// Placeholder texts.
const (
	UnknownName = "Unbekannt"
	Missing     = "-"
	NoImage     = "Kein Bild verfügbar"
)

// summaryExcluded columns are shown in the card head, not in its details.
var summaryExcluded = map[string]bool{
	models.ColName:        true,
	models.ColBotanical:   true,
	models.ColImage:       true,
	models.ColDescription: true,
}

// Detail is one "label: value" line of a card's expandable block.
type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Card is the visual summary of one record.
type Card struct {
	Index          int      `json:"index"`
	Title          string   `json:"title"`
	Subtitle       string   `json:"subtitle"`
	ImageURL       string   `json:"image_url,omitempty"`
	HasImage       bool     `json:"has_image"`
	Location       string   `json:"standort"`
	ClimbingType   string   `json:"klettertyp"`
	Description    string   `json:"beschreibung,omitempty"`
	HasDescription bool     `json:"-"`
	Details        []Detail `json:"details"`
}

// ImageResolver returns the URL of a record's image, or false when the
// record has no displayable image.
type ImageResolver func(models.Record) (string, bool)

// Cards builds one card per record of table, in table order.
func Cards(table *models.Table, images ImageResolver) []Card {
	cards := make([]Card, 0, table.Len())
	for _, rec := range table.Records {
		c := Card{
			Index:        rec.Index,
			Title:        rec.Get(models.ColName).Or(UnknownName),
			Subtitle:     rec.Get(models.ColBotanical).Or(Missing),
			Location:     rec.Get(models.ColLocation).Or(Missing),
			ClimbingType: rec.Get(models.ColClimbingType).Or(Missing),
			Details:      []Detail{},
		}
		if images != nil {
			c.ImageURL, c.HasImage = images(rec)
		}
		if desc := rec.Get(models.ColDescription); desc.Valid {
			c.Description = desc.Value
			c.HasDescription = true
		}
		for _, col := range table.Columns {
			if summaryExcluded[col] {
				continue
			}
			v := rec.Get(col)
			value := Missing
			if v.Valid {
				value = v.Value
			}
			c.Details = append(c.Details, Detail{Label: models.Label(col), Value: value})
		}
		cards = append(cards, c)
	}
	return cards
}

// GridRow is one row of the card grid.
type GridRow struct {
	Cards []Card
}

// Grid arranges cards row-major into rows of at most columns cards.
func Grid(cards []Card, columns int) []GridRow {
	if columns < 1 {
		columns = 1
	}
	rows := make([]GridRow, 0, (len(cards)+columns-1)/columns)
	for start := 0; start < len(cards); start += columns {
		end := min(start+columns, len(cards))
		rows = append(rows, GridRow{Cards: cards[start:end]})
	}
	return rows
}
