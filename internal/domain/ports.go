package domain

import "context"

// Catalog is the ingredient shelf. Implementations are read-only after
// construction.
type Catalog interface {
	List() []Ingredient
	ByID(id string) (Ingredient, error)
	Find(name string) (Ingredient, bool)
	// Resolve never fails: unknown names get a synthetic ingredient.
	Resolve(name string) Ingredient
}

// SessionStore persists sessions. Implementations can be in-memory,
// BoltDB, or any other backend.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	ListActive(ctx context.Context) ([]*Session, error)
	// ListFinished returns served drinks, most recently served first.
	ListFinished(ctx context.Context) ([]*Session, error)
}

// RecipeGenerator turns a mood or request into a recipe.
type RecipeGenerator interface {
	Generate(ctx context.Context, prompt, preferences string) (*Recipe, error)
}

// DrinkCritic reviews a hand-built drink and describes it as a recipe.
type DrinkCritic interface {
	Analyze(ctx context.Context, drink DrinkState) (*Recipe, error)
}

// Judge decides whether a drink satisfies mission requirements.
type Judge interface {
	Judge(ctx context.Context, input JudgeInput) (*MissionResult, error)
}

// JudgeInput is everything the judge sees about the finished drink.
type JudgeInput struct {
	Recipe       *Recipe       `json:"recipe"`
	Stats        Stats         `json:"stats"`
	Glass        string        `json:"glass"`
	Requirements []Requirement `json:"requirements"`
}

// Notifier delivers messages to the user.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}
