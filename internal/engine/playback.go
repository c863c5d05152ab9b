package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hammamikhairi/ottobar/internal/domain"
)

// StepEvent reports playback progress. Action is nil for an instruction
// that produced no action; Session is the state after the action.
type StepEvent struct {
	Index       int
	Total       int
	Instruction string
	Action      *domain.Action
	Session     *domain.Session
}

// Play replays a recipe on the session's drink, one action at a time, in
// instruction order. It blocks until the recipe is done, ctx is
// cancelled, or StopPlayback is called. Actions already applied stay
// applied when playback stops early. onStep may be nil.
func (e *Engine) Play(ctx context.Context, sessionID string, recipe domain.Recipe, onStep func(StepEvent)) (err error) {
	if len(recipe.Instructions) == 0 {
		return domain.ErrEmptyRecipe
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := e.beginPlayback(ctx, sessionID, recipe, cancel); err != nil {
		return err
	}
	defer e.endPlayback(context.WithoutCancel(ctx), sessionID)

	ctx, span := e.tracer.Start(ctx, "Engine.Play", trace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.String("recipe.name", recipe.Name),
		attribute.Int("recipe.instructions", len(recipe.Instructions)),
	))
	defer span.End()
	e.plays.Add(ctx, 1)

	total := len(recipe.Instructions)
	applied := 0
	defer func() {
		span.SetAttributes(attribute.Int("actions.applied", applied))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	e.log.Info("session %s: playing %q (%d instructions)", sessionID, recipe.Name, total)

	for i, text := range recipe.Instructions {
		actions := e.interp.InterpretInstruction(recipe, i)
		if len(actions) == 0 {
			notify(onStep, StepEvent{Index: i, Total: total, Instruction: text})
			continue
		}

		for j, a := range actions {
			if err := ctx.Err(); err != nil {
				e.log.Info("session %s: playback stopped at instruction %d/%d", sessionID, i+1, total)
				return err
			}

			session, err := e.Apply(ctx, sessionID, a)
			if err != nil {
				return fmt.Errorf("instruction %d: %w", i+1, err)
			}
			applied++
			notify(onStep, StepEvent{Index: i, Total: total, Instruction: text, Action: &a, Session: session})

			if a.Type == domain.ActionPour && j < len(actions)-1 {
				if err := sleep(ctx, e.pourGap); err != nil {
					return err
				}
			}
		}

		if i < total-1 {
			if err := sleep(ctx, e.stepDelay); err != nil {
				return err
			}
		}
	}

	e.log.Info("session %s: recipe %q done, %d actions", sessionID, recipe.Name, applied)
	return nil
}

// StopPlayback cancels the session's running playback, if any.
func (e *Engine) StopPlayback(sessionID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	cancel, ok := e.playing[sessionID]
	if ok {
		cancel()
	}
	return ok
}

// IsPlaying reports whether a playback is running for the session.
func (e *Engine) IsPlaying(sessionID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.playing[sessionID]
	return ok
}

func (e *Engine) beginPlayback(ctx context.Context, sessionID string, recipe domain.Recipe, cancel context.CancelFunc) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.playing[sessionID]; ok {
		return domain.ErrPlaybackRunning
	}

	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if session.Status != domain.SessionActive {
		return domain.ErrSessionNotActive
	}

	session.Recipe = &recipe
	session.Playing = true
	session.UpdatedAt = time.Now()
	if err := e.store.Save(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	e.playing[sessionID] = cancel
	return nil
}

func (e *Engine) endPlayback(ctx context.Context, sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.playing, sessionID)

	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		e.log.Warn("session %s: clearing playback flag: %v", sessionID, err)
		return
	}
	session.Playing = false
	session.UpdatedAt = time.Now()
	if err := e.store.Save(ctx, session); err != nil {
		e.log.Warn("session %s: clearing playback flag: %v", sessionID, err)
	}
}

func notify(onStep func(StepEvent), ev StepEvent) {
	if onStep != nil {
		onStep(ev)
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// IsStopped reports whether err only means playback was cancelled.
func IsStopped(err error) bool {
	return errors.Is(err, context.Canceled)
}
