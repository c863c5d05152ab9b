package drink

import (
	"testing"

	"github.com/hammamikhairi/ottobar/internal/domain"
)

func TestStats(t *testing.T) {
	tonic := domain.Ingredient{ID: "tonic", Name: "Tonic", ABV: 0, Color: "#F0F8FF", Density: 1.02}
	third := domain.Ingredient{ID: "x", Name: "X", ABV: 10, Color: "#000000", Density: 1}

	tests := []struct {
		name    string
		actions []domain.Action
		abv     float64
		density float64
		volume  float64
		temp    string
	}{
		{"empty glass", nil, 0, 1, 0, TempNeutral},
		{"gin only", []domain.Action{pour(gin, 50)}, 40, 0.94, 50, TempNeutral},
		{"gin and tonic", []domain.Action{pour(gin, 50), pour(tonic, 150)}, 10, 1.0, 200, TempNeutral},
		{"rounding", []domain.Action{pour(third, 10), pour(tonic, 20)}, 3.3, 1.013, 30, TempNeutral},
		{"shaken", []domain.Action{pour(gin, 30), act(domain.ActionShake)}, 40, 0.94, 30, TempShaken},
		{"ice wins over shake", []domain.Action{pour(gin, 30), act(domain.ActionShake), act(domain.ActionAddIce)}, 40, 0.94, 30, TempIced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Stats(build(domain.GlassHighball, tt.actions...))
			if s.ABV != tt.abv || s.Density != tt.density || s.Volume != tt.volume || s.Temperature != tt.temp {
				t.Fatalf("Stats = %+v, want abv=%v density=%v volume=%v temp=%s",
					s, tt.abv, tt.density, tt.volume, tt.temp)
			}
		})
	}
}
