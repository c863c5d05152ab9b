package domain

// RecipeIngredient is one line of a generated recipe. Amount is free
// text ("30ml", "2 dashes", "适量") exactly as the generator wrote it.
type RecipeIngredient struct {
	Name   string `json:"name" yaml:"name"`
	Amount string `json:"amount" yaml:"amount"`
}

// FlavorProfile is the generator's tasting estimate, 0..10 per axis.
type FlavorProfile struct {
	Sweet  float64 `json:"sweet" yaml:"sweet"`
	Sour   float64 `json:"sour" yaml:"sour"`
	Bitter float64 `json:"bitter" yaml:"bitter"`
	Spicy  float64 `json:"spicy" yaml:"spicy"`
	Boozy  float64 `json:"boozy" yaml:"boozy"`
	Salty  float64 `json:"salty" yaml:"salty"`
}

// Recipe is a drink as described by the generative service. Only
// Ingredients and Instructions drive playback; the rest is presentation.
type Recipe struct {
	Name          string             `json:"name" yaml:"name"`
	Description   string             `json:"description" yaml:"description"`
	Ingredients   []RecipeIngredient `json:"ingredients" yaml:"ingredients"`
	Instructions  []string           `json:"instructions" yaml:"instructions"`
	VisualPrompt  string             `json:"visualPrompt" yaml:"visualPrompt"`
	FlavorProfile FlavorProfile      `json:"flavorProfile" yaml:"flavorProfile"`
	Lore          string             `json:"lore" yaml:"lore"`
}
