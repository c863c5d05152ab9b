// Package mission checks a finished drink against a customer's mission
// requirements. The verdict comes from an external judge; this package
// prepares its input and keeps the outcome total, so a judge failure is a
// failed verdict rather than an error.
package mission

import (
	"context"
	"strings"

	"github.com/hammamikhairi/ottobar/internal/domain"
	"github.com/hammamikhairi/ottobar/internal/drink"
	"github.com/hammamikhairi/ottobar/internal/logger"
)

// Fixed reasons returned when the judge gives none of its own.
const (
	ReasonUnavailable = "系统暂时无法判定"
	ReasonGenerated   = "评价已生成"
	ReasonCompleted   = "任务已完成"
)

// Evaluator asks a judge whether a drink meets a mission.
type Evaluator struct {
	judge   domain.Judge
	catalog domain.Catalog
	log     *logger.Logger
}

// NewEvaluator creates an Evaluator. The catalog is only used by Precheck
// to look up ingredient flavors and may be nil.
func NewEvaluator(judge domain.Judge, catalog domain.Catalog, log *logger.Logger) *Evaluator {
	return &Evaluator{judge: judge, catalog: catalog, log: log}
}

// Evaluate returns the judge's verdict on the drink. analysis is the
// critic's description of the drink and may be nil. A mission that is
// already completed is not judged again.
func (e *Evaluator) Evaluate(ctx context.Context, state domain.DrinkState, analysis *domain.Recipe, m domain.Mission) domain.MissionResult {
	if m.Completed {
		return domain.MissionResult{Success: true, Reason: ReasonCompleted}
	}
	if e.judge == nil {
		e.log.Warn("mission %s: no judge configured", m.ID)
		return domain.MissionResult{Success: false, Reason: ReasonUnavailable}
	}

	input := domain.JudgeInput{
		Recipe:       analysis,
		Stats:        drink.Stats(state),
		Glass:        state.Glass.Label(),
		Requirements: m.Requirements,
	}

	res, err := e.judge.Judge(ctx, input)
	if err != nil {
		e.log.Warn("mission %s: judge failed: %v", m.ID, err)
		return domain.MissionResult{Success: false, Reason: ReasonUnavailable}
	}

	out := domain.MissionResult{Reason: ReasonGenerated}
	if res != nil {
		out.Success = res.Success
		if r := strings.TrimSpace(res.Reason); r != "" {
			out.Reason = r
		}
	}
	e.log.Info("mission %s judged: success=%v", m.ID, out.Success)
	return out
}
