package domain

// RequirementType classifies a mission requirement.
type RequirementType string

const (
	RequireIngredient   RequirementType = "ingredient"    // Target = ingredient ID, Value = min ml
	RequireFlavor       RequirementType = "flavor"        // Target = flavor axis, Value = min intensity
	RequireAlcoholLevel RequirementType = "alcohol_level" // Target = "non_alcoholic" | "boozy", Value = ABV bound
	RequireGlass        RequirementType = "glass"         // Target = glass name
)

// Requirement is one condition a mission drink must meet.
type Requirement struct {
	Type   RequirementType `json:"type" yaml:"type"`
	Target string          `json:"target" yaml:"target"`
	Value  float64         `json:"value,omitempty" yaml:"value,omitempty"`
}

// Mission is a customer request handed in by the mission collaborator.
type Mission struct {
	ID           string        `json:"id" yaml:"id"`
	Date         string        `json:"date" yaml:"date"`
	NPCName      string        `json:"npcName" yaml:"npcName"`
	Request      string        `json:"requestDescription" yaml:"requestDescription"`
	Requirements []Requirement `json:"requirements" yaml:"requirements"`
	Reward       string        `json:"reward" yaml:"reward"`
	Completed    bool          `json:"isCompleted" yaml:"isCompleted"`
}

// MissionResult is the judge's verdict.
type MissionResult struct {
	Success bool   `json:"success" yaml:"success"`
	Reason  string `json:"reason" yaml:"reason"`
}
