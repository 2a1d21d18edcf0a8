package document

import "fmt"

// TemplateDef is a fixed column set a new sheet can be created from.
type TemplateDef struct {
	Name        string
	Description string
	Columns     []TemplateColumn
}

// TemplateColumn describes one column of a template.
type TemplateColumn struct {
	Name       string
	Type       ColumnType
	Options    []string
	Validation *Rule
}

func floatPtr(f float64) *float64 { return &f }

// templates are the built-in sheet layouts for common game-design data.
var templates = map[string]TemplateDef{
	"blank": {
		Name:        "blank",
		Description: "Empty sheet with a single text column",
		Columns: []TemplateColumn{
			{Name: "A", Type: TypeText},
		},
	},
	"items": {
		Name:        "items",
		Description: "Item definitions: name, rarity, stats and flavor",
		Columns: []TemplateColumn{
			{Name: "Name", Type: TypeText, Validation: &Rule{Required: true}},
			{Name: "Rarity", Type: TypeSelect, Options: []string{"Common", "Uncommon", "Rare", "Epic", "Legendary"}},
			{Name: "Value", Type: TypeNumber, Validation: &Rule{Min: floatPtr(0)}},
			{Name: "Stackable", Type: TypeBoolean},
			{Name: "Tags", Type: TypeMultiSelect, Options: []string{"Weapon", "Armor", "Consumable", "Quest", "Material"}},
			{Name: "Description", Type: TypeText},
		},
	},
	"enemies": {
		Name:        "enemies",
		Description: "Enemy stat blocks",
		Columns: []TemplateColumn{
			{Name: "Name", Type: TypeText, Validation: &Rule{Required: true}},
			{Name: "HP", Type: TypeNumber, Validation: &Rule{Min: floatPtr(1)}},
			{Name: "Attack", Type: TypeNumber},
			{Name: "Defense", Type: TypeNumber},
			{Name: "Element", Type: TypeSelect, Options: []string{"None", "Fire", "Ice", "Lightning", "Poison"}},
			{Name: "Boss", Type: TypeBoolean},
			{Name: "Power", Type: TypeFormula},
		},
	},
	"levels": {
		Name:        "levels",
		Description: "Level progression table",
		Columns: []TemplateColumn{
			{Name: "Level", Type: TypeNumber, Validation: &Rule{Required: true, Min: floatPtr(1)}},
			{Name: "XP Required", Type: TypeNumber},
			{Name: "Unlocks", Type: TypeText},
			{Name: "Released", Type: TypeDate},
		},
	},
}

// TemplateNames lists the built-in template names.
func TemplateNames() []string {
	return []string{"blank", "items", "enemies", "levels"}
}

// NewSheetFromTemplate creates an empty sheet with the template's fixed
// column set. Unknown template names are an error.
func NewSheetFromTemplate(name, template string) (*Sheet, error) {
	def, ok := templates[template]
	if !ok {
		return nil, fmt.Errorf("unknown sheet template %q", template)
	}
	sheet := NewSheet(name)
	for _, tc := range def.Columns {
		col := NewColumn(tc.Name, tc.Type)
		col.Options = append([]string(nil), tc.Options...)
		if tc.Validation != nil {
			v := *tc.Validation
			col.Validation = &v
		}
		sheet.Columns = append(sheet.Columns, col)
	}
	sheet.ReindexColumns()
	return sheet, nil
}

// Template returns a built-in template definition by name.
func Template(name string) (TemplateDef, bool) {
	def, ok := templates[name]
	return def, ok
}
