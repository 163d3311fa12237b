package render

import (
	"fmt"
	"slices"

	"github.com/atinyakov/GreenFacade/internal/filter"
	"github.com/atinyakov/GreenFacade/internal/models"
	"github.com/cbroglie/mustache"
)

// Form field names of the filter controls.
const (
	FieldLocation        = "standort"
	FieldClimbingType    = "klettertyp"
	FieldWater           = "wasserbedarf"
	FieldWinterHardiness = "winterhaerte"
	FieldSoil            = "boden"
	FieldGrowth          = "wuchsstaerke"
	FieldEvergreen       = "immergruen"
	FieldInsects         = "insekten"
)

// Option is one selectable value of a filter control.
type Option struct {
	Value    string
	Selected bool
}

// Control is a multi-select filter control.
type Control struct {
	Field   string
	Label   string
	Options []Option
}

// LoginPage is the data of the login form.
type LoginPage struct {
	Error string
}

// CatalogPage is the data of the main catalog page.
type CatalogPage struct {
	Username  string
	HasLogo   bool
	Warning   string
	Empty     bool
	CanExport bool
	Count     int

	Primary   []Control
	Secondary []Control
	Evergreen []Option
	Insects   bool

	Rows []GridRow
}

// CatalogInput collects what BuildCatalogPage needs from a request.
type CatalogInput struct {
	Session  *models.Session
	All      *models.Table
	Filtered *models.Table
	Options  filter.Options
	Images   ImageResolver
	HasLogo  bool
	Warning  string
}

// BuildCatalogPage assembles the catalog page model.
func BuildCatalogPage(in CatalogInput) CatalogPage {
	sel := in.Session.Filters
	page := CatalogPage{
		Username:  in.Session.Username,
		HasLogo:   in.HasLogo,
		Warning:   in.Warning,
		Empty:     in.All.Len() == 0,
		CanExport: in.Session.CanExport(),
		Count:     in.Filtered.Len(),
		Insects:   sel.InsectFriendly,
	}
	if page.Empty {
		return page
	}

	page.Primary = controls(
		control(FieldLocation, "Standort", in.Options.Location, sel.Location),
		control(FieldClimbingType, "Klettertyp", in.Options.ClimbingType, sel.ClimbingType),
	)
	page.Secondary = controls(
		control(FieldWater, "Wasserbedarf", in.Options.Water, sel.Water),
		control(FieldWinterHardiness, "Winterhärte", in.Options.WinterHardiness, sel.WinterHardiness),
		control(FieldSoil, "Bodenanspruch", in.Options.Soil, sel.Soil),
		control(FieldGrowth, "Wuchsstärke", in.Options.Growth, sel.Growth),
	)

	current := sel.Evergreen
	if current == "" {
		current = models.EvergreenAll
	}
	for _, v := range in.Options.Evergreen {
		page.Evergreen = append(page.Evergreen, Option{Value: v, Selected: v == current})
	}

	page.Rows = Grid(Cards(in.Filtered, in.Images), GridColumns)
	return page
}

func control(field, label string, values, selected []string) *Control {
	if values == nil {
		return nil
	}
	c := &Control{Field: field, Label: label}
	for _, v := range values {
		c.Options = append(c.Options, Option{Value: v, Selected: slices.Contains(selected, v)})
	}
	return c
}

func controls(cs ...*Control) []Control {
	out := []Control{}
	for _, c := range cs {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out
}

var (
	loginTemplate   *mustache.Template
	catalogTemplate *mustache.Template
)

func init() {
	partials := &mustache.StaticProvider{Partials: map[string]string{
		"layout_head": layoutHead,
		"card":        cardPartial,
		"control":     controlPartial,
	}}
	loginTemplate = mustParse(loginPage, partials)
	catalogTemplate = mustParse(catalogPage, partials)
}

func mustParse(src string, partials mustache.PartialProvider) *mustache.Template {
	t, err := mustache.ParseStringPartials(src, partials)
	if err != nil {
		panic(fmt.Sprintf("render: parse template: %v", err))
	}
	return t
}

// Login renders the login form.
func Login(page LoginPage) (string, error) {
	out, err := loginTemplate.Render(page)
	if err != nil {
		return "", fmt.Errorf("render login: %w", err)
	}
	return out, nil
}

// Catalog renders the catalog page.
func Catalog(page CatalogPage) (string, error) {
	out, err := catalogTemplate.Render(page)
	if err != nil {
		return "", fmt.Errorf("render catalog: %w", err)
	}
	return out, nil
}
