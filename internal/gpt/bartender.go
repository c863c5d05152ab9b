package gpt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hammamikhairi/ottobar/internal/domain"
	"github.com/hammamikhairi/ottobar/internal/drink"
	"github.com/hammamikhairi/ottobar/internal/logger"
)

var (
	_ domain.RecipeGenerator = (*Bartender)(nil)
	_ domain.DrinkCritic     = (*Bartender)(nil)
	_ domain.Judge           = (*Bartender)(nil)
)

// Bartender wraps the chat Client with bar-domain prompts and parsing.
// It is the single entry-point the CLI calls for AI-powered features.
type Bartender struct {
	client *Client
	log    *logger.Logger
}

// NewBartender creates a bartender backed by the given Client.
func NewBartender(client *Client, log *logger.Logger) *Bartender {
	return &Bartender{client: client, log: log}
}

// Generate invents a recipe from a mood or request.
func (b *Bartender) Generate(ctx context.Context, prompt, preferences string) (*domain.Recipe, error) {
	user := fmt.Sprintf("用户请求: \"%s\".\n偏好设置: %s.", prompt, preferences)
	raw, err := b.client.Chat(ctx, PromptGenerate, user)
	if err != nil {
		return nil, err
	}

	recipe, err := parseRecipe(raw)
	if err != nil {
		b.log.Error("gpt: failed to parse recipe JSON: %v\nraw: %s", err, raw)
		return nil, err
	}
	b.log.Debug("gpt: generated %q, %d ingredients, %d instructions",
		recipe.Name, len(recipe.Ingredients), len(recipe.Instructions))
	return recipe, nil
}

// critiqueInput is what the critic sees of a hand-built drink.
type critiqueInput struct {
	Ingredients []domain.RecipeIngredient `json:"ingredients"`
	Steps       []string                  `json:"steps"`
}

// Analyze reviews a hand-built drink. The returned recipe carries the
// model's name, notes and flavor, but the drink's own ingredients and step
// descriptions.
func (b *Bartender) Analyze(ctx context.Context, state domain.DrinkState) (*domain.Recipe, error) {
	in := critiqueInput{
		Ingredients: make([]domain.RecipeIngredient, 0, len(state.Layers)),
		Steps:       make([]string, 0, len(state.Steps)),
	}
	for _, l := range state.Layers {
		in.Ingredients = append(in.Ingredients, domain.RecipeIngredient{
			Name:   l.Name,
			Amount: drink.FormatAmount(l.Amount) + " ml",
		})
	}
	for _, s := range state.Steps {
		in.Steps = append(in.Steps, s.Description)
	}

	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("gpt: marshal drink: %w", err)
	}

	raw, err := b.client.Chat(ctx, fmt.Sprintf(PromptAnalyze, state.Glass.Label()), "分析这杯自制酒: \n"+string(data))
	if err != nil {
		return nil, err
	}

	recipe, err := parseRecipe(raw)
	if err != nil {
		b.log.Error("gpt: failed to parse analysis JSON: %v\nraw: %s", err, raw)
		return nil, err
	}
	recipe.Ingredients = in.Ingredients
	recipe.Instructions = in.Steps
	return recipe, nil
}

// Judge asks the model whether a drink meets the mission requirements.
// A blank reason is passed through; the caller picks the wording.
func (b *Bartender) Judge(ctx context.Context, input domain.JudgeInput) (*domain.MissionResult, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("gpt: marshal judge input: %w", err)
	}

	raw, err := b.client.Chat(ctx, PromptJudge, "请判断这杯酒是否满足任务要求: \n"+string(data))
	if err != nil {
		return nil, err
	}

	result, err := parseVerdict(raw)
	if err != nil {
		b.log.Error("gpt: failed to parse verdict JSON: %v\nraw: %s", err, raw)
		return nil, err
	}
	b.log.Debug("gpt: verdict success=%v reason=%q", result.Success, truncate(result.Reason, 80))
	return result, nil
}

type askResponse struct {
	Answer string `json:"answer"`
}

// Ask answers a free-form question with the session's drink as context.
func (b *Bartender) Ask(ctx context.Context, question string, session *domain.Session) (string, error) {
	user := question
	if block := buildContext(session); block != "" {
		user = block + "\n[Question]\n" + question
	}

	raw, err := b.client.Chat(ctx, PromptAsk, user)
	if err != nil {
		return "", err
	}

	var resp askResponse
	if err := decodeLenient(raw, &resp); err != nil || resp.Answer == "" {
		// Fall back: treat the whole reply as the answer.
		return stripCodeFence(raw), nil
	}
	return resp.Answer, nil
}

// buildContext serializes the drink on the bench into a plain-text block
// the model can reason over.
func buildContext(session *domain.Session) string {
	if session == nil {
		return ""
	}

	d := session.Drink
	var b strings.Builder
	b.WriteString("[Current Drink]\n")
	fmt.Fprintf(&b, "Glass: %s (%sml / %sml)\n", d.Glass.Label(),
		drink.FormatAmount(d.CurrentVolume), drink.FormatAmount(d.MaxVolume))

	if len(d.Layers) == 0 {
		b.WriteString("The glass is empty.\n")
	}
	for _, l := range d.Layers {
		fmt.Fprintf(&b, "- %sml %s (%s%% ABV)\n", drink.FormatAmount(l.Amount), l.Name, drink.FormatAmount(l.ABV))
	}
	fmt.Fprintf(&b, "Ice: %v, Mixed: %v\n", d.Ice, d.IsMixed)
	if len(d.Garnish) > 0 {
		fmt.Fprintf(&b, "Garnish: %s\n", strings.Join(d.Garnish, ", "))
	}

	stats := drink.Stats(d)
	fmt.Fprintf(&b, "ABV: %v%%, Density: %v, Temperature: %s\n", stats.ABV, stats.Density, stats.Temperature)

	if r := session.Recipe; r != nil {
		b.WriteString("\n[Recipe]\n")
		fmt.Fprintf(&b, "%s: %s\n", r.Name, r.Description)
		for i, ins := range r.Instructions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, ins)
		}
		if session.Playing {
			b.WriteString("The recipe is playing right now.\n")
		}
	}
	return b.String()
}
