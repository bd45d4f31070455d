package service

// DefaultTheme is assigned to tenants that never picked one.
const DefaultTheme = "default"

// Theme is a predefined visual identity a tenant can select. Rendering
// the palette into CSS happens client-side.
type Theme struct {
	Name    string            `json:"name"`
	Label   string            `json:"label"`
	Colors  map[string]string `json:"colors"`
	Primary string            `json:"primary"`
}

// themes is the predefined catalog. Tenants may only select from here.
var themes = map[string]Theme{
	"default": {
		Name:    "default",
		Label:   "Padrão",
		Primary: "#1976D2",
		Colors: map[string]string{
			"primary":    "#1976D2",
			"secondary":  "#64B5F6",
			"background": "#F5F5F5",
			"surface":    "#FFFFFF",
		},
	},
	"barbearia": {
		Name:    "barbearia",
		Label:   "Barbearia",
		Primary: "#2D5016",
		Colors: map[string]string{
			"primary":    "#2D5016",
			"secondary":  "#4A7C59",
			"accent":     "#8FBC8F",
			"background": "#F5F5F5",
			"surface":    "#FFFFFF",
		},
	},
	"salao": {
		Name:    "salao",
		Label:   "Salão de Beleza",
		Primary: "#E91E63",
		Colors: map[string]string{
			"primary":    "#E91E63",
			"secondary":  "#F8BBD9",
			"accent":     "#FCE4EC",
			"background": "#FDF2F8",
			"surface":    "#FFFFFF",
		},
	},
	"clinica": {
		Name:    "clinica",
		Label:   "Clínica",
		Primary: "#00695C",
		Colors: map[string]string{
			"primary":    "#00695C",
			"secondary":  "#4DB6AC",
			"accent":     "#B2DFDB",
			"background": "#FAFAFA",
			"surface":    "#FFFFFF",
		},
	},
}

// ListThemes returns the catalog in no particular order.
func ListThemes() []Theme {
	out := make([]Theme, 0, len(themes))
	for _, t := range themes {
		out = append(out, t)
	}
	return out
}

// ThemeExists reports whether name is part of the catalog.
func ThemeExists(name string) bool {
	_, ok := themes[name]
	return ok
}
