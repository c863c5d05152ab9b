package mission

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/ottobar/internal/catalog"
	"github.com/hammamikhairi/ottobar/internal/domain"
	"github.com/hammamikhairi/ottobar/internal/drink"
	"github.com/hammamikhairi/ottobar/internal/logger"
)

type fakeJudge struct {
	result *domain.MissionResult
	err    error
	calls  int
	last   domain.JudgeInput
}

func (f *fakeJudge) Judge(_ context.Context, in domain.JudgeInput) (*domain.MissionResult, error) {
	f.calls++
	f.last = in
	return f.result, f.err
}

func ginDrink(t *testing.T, cat *catalog.Catalog, ml float64) domain.DrinkState {
	t.Helper()
	gin, err := cat.ByID("gin")
	require.NoError(t, err)
	s := drink.New(domain.GlassMartini)
	s = drink.Apply(s, domain.Action{Type: domain.ActionPour, Ingredient: &gin, Amount: ml})
	return drink.Apply(s, domain.Action{Type: domain.ActionStir})
}

func TestEvaluate(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	cat := catalog.NewDefault(log)
	mission := domain.Mission{
		ID: "m1",
		Requirements: []domain.Requirement{
			{Type: domain.RequireIngredient, Target: "gin", Value: 30},
		},
	}

	tests := []struct {
		name    string
		judge   *fakeJudge
		want    domain.MissionResult
		judged  bool
		mission func(domain.Mission) domain.Mission
	}{
		{
			name:   "success with reason",
			judge:  &fakeJudge{result: &domain.MissionResult{Success: true, Reason: "完美的马天尼"}},
			want:   domain.MissionResult{Success: true, Reason: "完美的马天尼"},
			judged: true,
		},
		{
			name:   "empty reason",
			judge:  &fakeJudge{result: &domain.MissionResult{Success: false, Reason: "  "}},
			want:   domain.MissionResult{Success: false, Reason: ReasonGenerated},
			judged: true,
		},
		{
			name:   "nil result",
			judge:  &fakeJudge{},
			want:   domain.MissionResult{Success: false, Reason: ReasonGenerated},
			judged: true,
		},
		{
			name:   "judge error",
			judge:  &fakeJudge{err: errors.New("upstream 503")},
			want:   domain.MissionResult{Success: false, Reason: ReasonUnavailable},
			judged: true,
		},
		{
			name:    "already completed",
			judge:   &fakeJudge{result: &domain.MissionResult{Success: false}},
			want:    domain.MissionResult{Success: true, Reason: ReasonCompleted},
			judged:  false,
			mission: func(m domain.Mission) domain.Mission { m.Completed = true; return m },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mission
			if tt.mission != nil {
				m = tt.mission(m)
			}
			ev := NewEvaluator(tt.judge, cat, log)
			state := ginDrink(t, cat, 60)
			analysis := &domain.Recipe{Name: "Gin Martini"}

			got := ev.Evaluate(context.Background(), state, analysis, m)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.judged, tt.judge.calls == 1)

			if tt.judged {
				in := tt.judge.last
				assert.Same(t, analysis, in.Recipe)
				assert.Equal(t, "马提尼杯", in.Glass)
				assert.Equal(t, 40.0, in.Stats.ABV)
				assert.Equal(t, 60.0, in.Stats.Volume)
				assert.Equal(t, m.Requirements, in.Requirements)
			}
		})
	}
}

func TestEvaluateWithoutJudge(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	ev := NewEvaluator(nil, nil, log)
	got := ev.Evaluate(context.Background(), drink.New(domain.GlassRocks), nil, domain.Mission{ID: "m"})
	assert.Equal(t, domain.MissionResult{Success: false, Reason: ReasonUnavailable}, got)
}

func TestPrecheck(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	cat := catalog.NewDefault(log)
	ev := NewEvaluator(nil, cat, log)

	tests := []struct {
		name   string
		ml     float64
		reqs   []domain.Requirement
		misses int
	}{
		{"enough gin", 30, []domain.Requirement{{Type: domain.RequireIngredient, Target: "gin", Value: 30}}, 0},
		{"too little gin", 20, []domain.Requirement{{Type: domain.RequireIngredient, Target: "gin", Value: 30}}, 1},
		{"missing vodka", 30, []domain.Requirement{{Type: domain.RequireIngredient, Target: "vodka", Value: 45}}, 1},
		{"right glass", 30, []domain.Requirement{{Type: domain.RequireGlass, Target: "马提尼杯"}}, 0},
		{"wrong glass", 30, []domain.Requirement{{Type: domain.RequireGlass, Target: "海波杯"}}, 1},
		{"unknown glass ignored", 30, []domain.Requirement{{Type: domain.RequireGlass, Target: "teacup"}}, 0},
		{"not non-alcoholic", 30, []domain.Requirement{{Type: domain.RequireAlcoholLevel, Target: LevelNonAlcoholic}}, 1},
		{"boozy enough", 30, []domain.Requirement{{Type: domain.RequireAlcoholLevel, Target: LevelBoozy, Value: 20}}, 0},
		{"bitter too low", 30, []domain.Requirement{{Type: domain.RequireFlavor, Target: "bitter", Value: 4}}, 1},
		{"boozy flavor met", 30, []domain.Requirement{{Type: domain.RequireFlavor, Target: "boozy", Value: 7}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			misses := ev.Precheck(ginDrink(t, cat, tt.ml), domain.Mission{Requirements: tt.reqs})
			assert.Len(t, misses, tt.misses, "misses: %v", misses)
		})
	}
}

func TestEstimateFlavor(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	cat := catalog.NewDefault(log)

	assert.Equal(t, domain.Flavor{}, EstimateFlavor(drink.New(domain.GlassRocks), cat))

	f := EstimateFlavor(ginDrink(t, cat, 50), cat)
	assert.InDelta(t, 3.0, f.Bitter, 1e-9)
	assert.InDelta(t, 8.0, f.Boozy, 1e-9)
}
