package drink

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/hammamikhairi/ottobar/internal/color"
	"github.com/hammamikhairi/ottobar/internal/domain"
)

var (
	gin  = domain.Ingredient{ID: "gin", Name: "伦敦干金酒 (Gin)", ABV: 40, Color: "#F5F5F5", Density: 0.94}
	red  = domain.Ingredient{ID: "red", Name: "Red", ABV: 20, Color: "#FF0000", Density: 1.1}
	blue = domain.Ingredient{ID: "blue", Name: "Blue", ABV: 0, Color: "#0000FF", Density: 1.0}
	mint = domain.Ingredient{ID: "garnish_mint", Name: "薄荷叶 (Mint)", Category: domain.CategoryGarnish}
)

func pour(ing domain.Ingredient, ml float64) domain.Action {
	return domain.Action{Type: domain.ActionPour, Ingredient: &ing, Amount: ml}
}

func garnish(ing domain.Ingredient) domain.Action {
	return domain.Action{Type: domain.ActionGarnish, Ingredient: &ing}
}

func act(t domain.ActionType) domain.Action {
	return domain.Action{Type: t}
}

func build(glass domain.GlassType, actions ...domain.Action) domain.DrinkState {
	s := New(glass)
	for _, a := range actions {
		s = Apply(s, a)
	}
	return s
}

func TestNew(t *testing.T) {
	s := New(domain.GlassHighball)
	if s.MaxVolume != 350 || s.CurrentVolume != 0 || s.MixedColor != EmptyColor {
		t.Fatalf("unexpected empty state: %+v", s)
	}
	if s.IsMixed || s.Ice || len(s.Steps) != 0 || len(s.Layers) != 0 || len(s.Garnish) != 0 {
		t.Fatalf("empty state is not empty: %+v", s)
	}
}

func TestApplyPour(t *testing.T) {
	s := Apply(New(domain.GlassRocks), pour(gin, 30))

	if s.CurrentVolume != 30 {
		t.Fatalf("volume = %v, want 30", s.CurrentVolume)
	}
	if s.MixedColor != gin.Color {
		t.Fatalf("first pour color = %s, want %s", s.MixedColor, gin.Color)
	}
	if len(s.Layers) != 1 || s.Layers[0].IngredientID != "gin" || s.Layers[0].ABV != 40 {
		t.Fatalf("unexpected layers: %+v", s.Layers)
	}
	step := s.Steps[0]
	if step.ID != "step-1" || step.Action != domain.ActionPour || step.Amount != 30 {
		t.Fatalf("unexpected step: %+v", step)
	}
	if step.Description != "注入 30ml 伦敦干金酒" {
		t.Fatalf("description = %q", step.Description)
	}
	if s.Layers[0].ID != step.ID {
		t.Fatalf("layer id %s does not match step id %s", s.Layers[0].ID, step.ID)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	base := build(domain.GlassRocks, pour(red, 10), garnish(mint))
	before := build(domain.GlassRocks, pour(red, 10), garnish(mint))

	_ = Apply(base, pour(blue, 10))
	_ = Apply(base, garnish(mint))
	_ = Undo(base)

	if diff := cmp.Diff(before, base); diff != "" {
		t.Fatalf("input state changed (-want +got):\n%s", diff)
	}
}

func TestVolumeConservation(t *testing.T) {
	s := build(domain.GlassHighball,
		pour(gin, 45), act(domain.ActionAddIce), pour(red, 15.5), act(domain.ActionStir),
		pour(blue, 20), garnish(mint), act(domain.ActionShake), pour(gin, 5),
	)

	var sum float64
	for _, l := range s.Layers {
		sum += l.Amount
	}
	if s.CurrentVolume != sum {
		t.Fatalf("volume %v != layer sum %v", s.CurrentVolume, sum)
	}
	if s.CurrentVolume != 85.5 {
		t.Fatalf("volume = %v, want 85.5", s.CurrentVolume)
	}

	pours := 0
	for _, st := range s.Steps {
		if st.Action == domain.ActionPour {
			pours++
		}
	}
	if pours != len(s.Layers) {
		t.Fatalf("%d pour steps but %d layers", pours, len(s.Layers))
	}
}

func TestBlendOnSecondPour(t *testing.T) {
	s := build(domain.GlassRocks, pour(red, 50), pour(blue, 50))
	if d := color.Distance(s.MixedColor, "#800080"); d > 1 {
		t.Fatalf("mixed color = %s, want #800080 ±1", s.MixedColor)
	}
	if s.IsMixed {
		t.Fatal("pouring alone must not mark the drink as mixed")
	}
}

func TestBlendOrderInvariance(t *testing.T) {
	ab := build(domain.GlassRocks, pour(red, 30), pour(blue, 20))
	ba := build(domain.GlassRocks, pour(blue, 20), pour(red, 30))
	if d := color.Distance(ab.MixedColor, ba.MixedColor); d > 1 {
		t.Fatalf("order changed the color: %s vs %s", ab.MixedColor, ba.MixedColor)
	}
}

func TestMixAndIceFlags(t *testing.T) {
	tests := []struct {
		name   string
		action domain.ActionType
		mixed  bool
		ice    bool
	}{
		{"stir", domain.ActionStir, true, false},
		{"shake", domain.ActionShake, true, false},
		{"ice", domain.ActionAddIce, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := build(domain.GlassRocks, pour(red, 40))
			after := Apply(before, act(tt.action))
			if after.IsMixed != tt.mixed || after.Ice != tt.ice {
				t.Fatalf("mixed=%v ice=%v, want %v %v", after.IsMixed, after.Ice, tt.mixed, tt.ice)
			}
			if after.CurrentVolume != before.CurrentVolume || after.MixedColor != before.MixedColor {
				t.Fatal("volume or color changed on a non-pour action")
			}
		})
	}
}

func TestGarnishOrder(t *testing.T) {
	lemon := domain.Ingredient{ID: "garnish_lemon", Name: "柠檬皮 (Lemon Twist)"}
	s := build(domain.GlassCoupe, garnish(mint), garnish(lemon), garnish(mint))

	want := []string{"garnish_mint", "garnish_lemon", "garnish_mint"}
	if diff := cmp.Diff(want, s.Garnish); diff != "" {
		t.Fatalf("garnish order (-want +got):\n%s", diff)
	}
	if s.Steps[0].Description != "装饰 薄荷叶" {
		t.Fatalf("description = %q", s.Steps[0].Description)
	}
}

func TestInvalidActionsIgnored(t *testing.T) {
	base := build(domain.GlassRocks, pour(red, 10))

	tests := []struct {
		name   string
		action domain.Action
	}{
		{"pour without ingredient", domain.Action{Type: domain.ActionPour, Amount: 30}},
		{"pour zero", pour(blue, 0)},
		{"pour negative", pour(blue, -5)},
		{"garnish without ingredient", domain.Action{Type: domain.ActionGarnish}},
		{"unknown type", domain.Action{Type: domain.ActionType(99)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(base, Apply(base, tt.action)); diff != "" {
				t.Fatalf("state changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDescriptionOverride(t *testing.T) {
	a := pour(gin, 30)
	a.Description = "倒入30ml金酒"
	s := Apply(New(domain.GlassRocks), a)
	if s.Steps[0].Description != "倒入30ml金酒" {
		t.Fatalf("description = %q", s.Steps[0].Description)
	}
}

func TestUndoRestoresPreviousState(t *testing.T) {
	prefixes := [][]domain.Action{
		nil,
		{pour(gin, 30)},
		{pour(red, 20), pour(blue, 25)},
		{pour(red, 20), act(domain.ActionShake), act(domain.ActionAddIce)},
		{pour(gin, 60), garnish(mint), pour(blue, 10)},
	}
	actions := []domain.Action{
		pour(blue, 15), act(domain.ActionAddIce), act(domain.ActionStir),
		act(domain.ActionShake), garnish(mint),
	}

	for i, prefix := range prefixes {
		s := build(domain.GlassMartini, prefix...)
		for _, a := range actions {
			got := Undo(Apply(s, a))
			if diff := cmp.Diff(s, got, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("prefix %d, undo %s (-want +got):\n%s", i, a.Type, diff)
			}
		}
	}
}

func TestUndoUnmixes(t *testing.T) {
	s := build(domain.GlassRocks, pour(red, 20), act(domain.ActionStir))
	if !s.IsMixed {
		t.Fatal("expected mixed drink")
	}
	if Undo(s).IsMixed {
		t.Fatal("undoing the stir should leave the drink unmixed")
	}
}

func TestUndoEmpty(t *testing.T) {
	s := New(domain.GlassRocks)
	if diff := cmp.Diff(s, Undo(s)); diff != "" {
		t.Fatalf("undo on empty changed state (-want +got):\n%s", diff)
	}
}

func TestUndoKeepsSyntheticIngredients(t *testing.T) {
	moon := domain.Ingredient{ID: "ai_月光糖浆", Name: "月光糖浆", Color: color.FromName("月光糖浆"), Density: 1}
	s := build(domain.GlassRocks, pour(moon, 20), pour(red, 20), act(domain.ActionStir))
	u := Undo(Undo(s))
	if len(u.Layers) != 1 || u.Layers[0].Color != moon.Color || u.MixedColor != moon.Color {
		t.Fatalf("synthetic layer lost on replay: %+v", u)
	}
}

func TestStepIDsUnique(t *testing.T) {
	s := build(domain.GlassRocks, pour(red, 10), pour(blue, 10), act(domain.ActionStir))
	s = Undo(s)
	s = Apply(s, act(domain.ActionShake))

	seen := map[string]bool{}
	for _, st := range s.Steps {
		if seen[st.ID] {
			t.Fatalf("duplicate step id %s", st.ID)
		}
		seen[st.ID] = true
	}
	if s.Steps[2].ID != "step-3" {
		t.Fatalf("step id = %s, want step-3", s.Steps[2].ID)
	}
}

func TestWithGlassAndCapacity(t *testing.T) {
	s := build(domain.GlassHighball, pour(red, 150), pour(blue, 100))
	if Overflowing(s) || Remaining(s) != 100 {
		t.Fatalf("highball: overflowing=%v remaining=%v", Overflowing(s), Remaining(s))
	}

	small := WithGlass(s, domain.GlassCoupe)
	if small.MaxVolume != 180 || small.CurrentVolume != 250 {
		t.Fatalf("unexpected state after glass change: %+v", small)
	}
	if !Overflowing(small) || Remaining(small) != 0 {
		t.Fatalf("coupe: overflowing=%v remaining=%v", Overflowing(small), Remaining(small))
	}
	if s.Glass != domain.GlassHighball {
		t.Fatal("WithGlass modified its input")
	}

	if u := Undo(small); u.Glass != domain.GlassCoupe || u.CurrentVolume != 150 {
		t.Fatalf("undo lost the glass change: %+v", u)
	}
}

func TestReset(t *testing.T) {
	s := build(domain.GlassMartini, pour(gin, 60), act(domain.ActionStir), garnish(mint))
	r := Reset(s)
	if diff := cmp.Diff(New(domain.GlassMartini), r); diff != "" {
		t.Fatalf("reset (-want +got):\n%s", diff)
	}
}
