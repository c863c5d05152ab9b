package gpt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/ottobar/internal/domain"
)

func TestDecodeLenient(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"plain", `{"reason":"ok"}`},
		{"fenced", "```json\n{\"reason\":\"ok\"}\n```"},
		{"fenced without language", "```\n{\"reason\":\"ok\"}\n```"},
		{"stray backticks", "`{\"reason\":\"ok\"}``"},
		{"surrounding chatter", "Here you go:\n{\"reason\":\"ok\"}\nEnjoy!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				Reason string `json:"reason"`
			}
			require.NoError(t, decodeLenient(tt.raw, &v))
			assert.Equal(t, "ok", v.Reason)
		})
	}
}

func TestDecodeLenientGarbage(t *testing.T) {
	var v map[string]any
	assert.ErrorIs(t, decodeLenient("the bar is closed", &v), ErrBadJSON)
}

func TestParseRecipe(t *testing.T) {
	raw := "```json\n" + `{
		"name": "东京之雨",
		"description": "湿润而清冷。",
		"ingredients": [
			{"name": "金酒(Gin)", "amount": "45ml"},
			{"name": "青柠汁", "amount": 20},
			{"name": "", "amount": "1ml"}
		],
		"instructions": ["倒入45ml金酒", "加入20ml青柠汁", "摇晃均匀"],
		"visualPrompt": "A pale cocktail",
		"flavorProfile": {"sweet": 2, "sour": "6", "bitter": 1, "spicy": 0, "boozy": 7, "salty": 0},
		"lore": "雨夜。"
	}` + "\n```"

	recipe, err := parseRecipe(raw)
	require.NoError(t, err)

	assert.Equal(t, "东京之雨", recipe.Name)
	assert.Equal(t, []domain.RecipeIngredient{
		{Name: "金酒(Gin)", Amount: "45ml"},
		{Name: "青柠汁", Amount: "20"},
	}, recipe.Ingredients)
	assert.Len(t, recipe.Instructions, 3)
	assert.Equal(t, domain.FlavorProfile{Sweet: 2, Sour: 6, Bitter: 1, Boozy: 7}, recipe.FlavorProfile)
	assert.Equal(t, "雨夜。", recipe.Lore)
}

func TestParseRecipeKeyVariants(t *testing.T) {
	raw := `{
		"title": "Backup",
		"tastingNotes": "notes",
		"steps": ["stir"],
		"imagePrompt": "img",
		"flavors": {"sweet": 9},
		"backstory": "once"
	}`

	recipe, err := parseRecipe(raw)
	require.NoError(t, err)

	assert.Equal(t, "Backup", recipe.Name)
	assert.Equal(t, "notes", recipe.Description)
	assert.Equal(t, []string{"stir"}, recipe.Instructions)
	assert.Equal(t, "img", recipe.VisualPrompt)
	assert.Equal(t, "once", recipe.Lore)
	assert.Equal(t, domain.FlavorProfile{Sweet: 9, Sour: 5, Boozy: 5}, recipe.FlavorProfile)
}

func TestParseRecipeDefaults(t *testing.T) {
	recipe, err := parseRecipe(`{}`)
	require.NoError(t, err)

	assert.Equal(t, DefaultName, recipe.Name)
	assert.Equal(t, DefaultDescription, recipe.Description)
	assert.Equal(t, []string{DefaultInstruction}, recipe.Instructions)
	assert.Equal(t, DefaultVisualPrompt, recipe.VisualPrompt)
	assert.Equal(t, DefaultLore, recipe.Lore)
	assert.Empty(t, recipe.Ingredients)
	assert.Equal(t, domain.FlavorProfile{Sweet: 5, Sour: 5, Boozy: 5}, recipe.FlavorProfile)
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want domain.MissionResult
	}{
		{"success", `{"success": true, "reason": "完美"}`, domain.MissionResult{Success: true, Reason: "完美"}},
		{"failure", `{"success": false, "reason": "缺少金酒"}`, domain.MissionResult{Reason: "缺少金酒"}},
		{"string bool", `{"success": "true"}`, domain.MissionResult{Success: true}},
		{"missing success", `{"reason": "嗯"}`, domain.MissionResult{Reason: "嗯"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVerdict(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}
