// Package filter narrows a plant table by a FilterSelection and derives the
// option lists shown next to each filter control.
package filter

import (
	"strings"

	"github.com/atinyakov/GreenFacade/internal/models"
)

// insectMarker is matched case-insensitively inside the insect column.
const insectMarker = "ja"

// multiSelect pairs a column with the selected values for it.
type multiSelect struct {
	column string
	values []string
}

func multiSelects(sel models.FilterSelection) []multiSelect {
	return []multiSelect{
		{models.ColLocation, sel.Location},
		{models.ColClimbingType, sel.ClimbingType},
		{models.ColWater, sel.Water},
		{models.ColWinterHardiness, sel.WinterHardiness},
		{models.ColSoil, sel.Soil},
		{models.ColGrowth, sel.Growth},
	}
}

// Mask returns one flag per record of table, true when the record satisfies
// every active constraint of sel. A constraint on a column the table does not
// have is ignored.
func Mask(table *models.Table, sel models.FilterSelection) []bool {
	mask := make([]bool, table.Len())
	for i := range mask {
		mask[i] = true
	}
	if table.Len() == 0 {
		return mask
	}

	for _, ms := range multiSelects(sel) {
		if len(ms.values) == 0 || !table.HasColumn(ms.column) {
			continue
		}
		allowed := make(map[string]bool, len(ms.values))
		for _, v := range ms.values {
			allowed[v] = true
		}
		for i, r := range table.Records {
			c := r.Get(ms.column)
			if !c.Valid || !allowed[c.Value] {
				mask[i] = false
			}
		}
	}

	if sel.Evergreen != "" && sel.Evergreen != models.EvergreenAll && table.HasColumn(models.ColEvergreen) {
		for i, r := range table.Records {
			c := r.Get(models.ColEvergreen)
			if !c.Valid || c.Value != sel.Evergreen {
				mask[i] = false
			}
		}
	}

	if sel.InsectFriendly && table.HasColumn(models.ColInsectFriendly) {
		for i, r := range table.Records {
			c := r.Get(models.ColInsectFriendly)
			if !c.Valid || !strings.Contains(strings.ToLower(c.Value), insectMarker) {
				mask[i] = false
			}
		}
	}

	return mask
}

// Apply returns the records of table matching sel, in table order.
func Apply(table *models.Table, sel models.FilterSelection) *models.Table {
	mask := Mask(table, sel)
	i := 0
	return table.Select(func(models.Record) bool {
		keep := mask[i]
		i++
		return keep
	})
}

// Options holds the selectable values per filter control. A nil slice means
// the column is absent and the control should be hidden.
type Options struct {
	Location        []string `json:"standort"`
	ClimbingType    []string `json:"klettertyp"`
	Water           []string `json:"wasserbedarf"`
	WinterHardiness []string `json:"winterhaerte"`
	Soil            []string `json:"boden"`
	Growth          []string `json:"wuchsstaerke"`
	Evergreen       []string `json:"immergruen"`
}

// EvergreenChoices are the radio options of the evergreen control.
var EvergreenChoices = []string{models.EvergreenAll, "Ja", "Nein"}

// BuildOptions computes the option lists from the table's current content.
func BuildOptions(table *models.Table) Options {
	return Options{
		Location:        table.Distinct(models.ColLocation),
		ClimbingType:    table.Distinct(models.ColClimbingType),
		Water:           table.Distinct(models.ColWater),
		WinterHardiness: table.Distinct(models.ColWinterHardiness),
		Soil:            table.Distinct(models.ColSoil),
		Growth:          table.Distinct(models.ColGrowth),
		Evergreen:       EvergreenChoices,
	}
}
