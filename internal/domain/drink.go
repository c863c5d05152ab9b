package domain

// GlassType is the vessel the drink is built in.
type GlassType int

const (
	GlassRocks GlassType = iota
	GlassHighball
	GlassMartini
	GlassCoupe
)

// String returns a human-readable glass name.
func (g GlassType) String() string {
	switch g {
	case GlassRocks:
		return "rocks"
	case GlassHighball:
		return "highball"
	case GlassMartini:
		return "martini"
	case GlassCoupe:
		return "coupe"
	default:
		return "unknown"
	}
}

// Label returns the display name used on the bar menu.
func (g GlassType) Label() string {
	switch g {
	case GlassHighball:
		return "海波杯"
	case GlassMartini:
		return "马提尼杯"
	case GlassCoupe:
		return "浅碟香槟杯"
	default:
		return "古典杯"
	}
}

// Capacity returns the glass volume in ml.
func (g GlassType) Capacity() float64 {
	switch g {
	case GlassHighball:
		return 350
	case GlassMartini:
		return 200
	case GlassCoupe:
		return 180
	default:
		return 250
	}
}

var glassNames = map[string]GlassType{
	"rocks":    GlassRocks,
	"古典杯":      GlassRocks,
	"highball": GlassHighball,
	"海波杯":      GlassHighball,
	"martini":  GlassMartini,
	"马提尼杯":     GlassMartini,
	"coupe":    GlassCoupe,
	"浅碟香槟杯":    GlassCoupe,
}

// GlassFromString converts a glass name (English or menu label) to a
// GlassType. The bool is false for unrecognised names.
func GlassFromString(name string) (GlassType, bool) {
	g, ok := glassNames[name]
	return g, ok
}

// Glasses lists every glass in menu order.
func Glasses() []GlassType {
	return []GlassType{GlassRocks, GlassHighball, GlassMartini, GlassCoupe}
}

// ActionType is one discrete bar action.
type ActionType int

const (
	ActionPour ActionType = iota
	ActionAddIce
	ActionStir
	ActionShake
	ActionGarnish
)

// String returns the snake_case action name.
func (a ActionType) String() string {
	switch a {
	case ActionPour:
		return "pour"
	case ActionAddIce:
		return "add_ice"
	case ActionStir:
		return "stir"
	case ActionShake:
		return "shake"
	case ActionGarnish:
		return "garnish"
	default:
		return "unknown"
	}
}

var actionNames = map[string]ActionType{
	"pour":    ActionPour,
	"add_ice": ActionAddIce,
	"stir":    ActionStir,
	"shake":   ActionShake,
	"garnish": ActionGarnish,
}

// ActionFromString converts a snake_case action name to an ActionType.
func ActionFromString(name string) (ActionType, bool) {
	a, ok := actionNames[name]
	return a, ok
}

// MarshalText implements encoding.TextMarshaler.
func (a ActionType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *ActionType) UnmarshalText(b []byte) error {
	if v, ok := ActionFromString(string(b)); ok {
		*a = v
	}
	return nil
}

// Action is the payload handed to the state machine. Ingredient is
// required for pours and garnishes; Description overrides the default
// step text when non-empty.
type Action struct {
	Type        ActionType
	Ingredient  *Ingredient
	Amount      float64 // ml, pours only
	Description string
}

// Step is one entry of the append-only action log. The resolved
// ingredient is copied in so the log alone can rebuild the drink.
type Step struct {
	ID           string      `json:"id"`
	Action       ActionType  `json:"action"`
	IngredientID string      `json:"ingredient_id,omitempty"`
	Ingredient   *Ingredient `json:"ingredient,omitempty"`
	Amount       float64     `json:"amount,omitempty"`
	Description  string      `json:"description"`
}

// LiquidLayer is the liquid from a single pour, in pour order.
type LiquidLayer struct {
	ID           string  `json:"id"`
	IngredientID string  `json:"ingredient_id"`
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	Color        string  `json:"color"`
	Density      float64 `json:"density"`
	ABV          float64 `json:"abv"`
}

// DrinkState is the full physical and visual state of the drink.
//
// CurrentVolume always equals the sum of layer amounts, and there is one
// layer per pour step. MixedColor tracks the blended color of everything
// poured so far, whether or not the drink has been mixed yet.
type DrinkState struct {
	Glass         GlassType     `json:"glass"`
	Steps         []Step        `json:"steps"`
	CurrentVolume float64       `json:"current_volume"`
	MaxVolume     float64       `json:"max_volume"`
	Layers        []LiquidLayer `json:"layers"`
	IsMixed       bool          `json:"is_mixed"`
	MixedColor    string        `json:"mixed_color"`
	Ice           bool          `json:"ice"`
	Garnish       []string      `json:"garnish"`
}

// Stats are the derived numbers downstream consumers read.
type Stats struct {
	ABV         float64 `json:"abv"`     // 1 decimal place
	Density     float64 `json:"density"` // 3 decimal places
	Volume      float64 `json:"volume"`
	Temperature string  `json:"temp"`
}
