// Package engine manages bar sessions: it feeds user and recipe actions
// through the drink state machine and persists the result.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/hammamikhairi/ottobar/internal/domain"
	"github.com/hammamikhairi/ottobar/internal/drink"
	"github.com/hammamikhairi/ottobar/internal/logger"
)

// InstrumentationName names the engine's tracer and meter.
const InstrumentationName = "github.com/hammamikhairi/ottobar/internal/engine"

// Playback pacing defaults.
const (
	DefaultStepDelay = 1500 * time.Millisecond
	DefaultPourGap   = 600 * time.Millisecond
)

// Interpreter turns one recipe instruction into actions.
type Interpreter interface {
	InterpretInstruction(recipe domain.Recipe, i int) []domain.Action
}

// Option configures the engine.
type Option func(*Engine)

// WithStepDelay sets the pause after each instruction that did something.
func WithStepDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.stepDelay = d
	}
}

// WithPourGap sets the pause between pours of a single instruction.
func WithPourGap(d time.Duration) Option {
	return func(e *Engine) {
		e.pourGap = d
	}
}

// WithDefaultGlass sets the glass new sessions start with.
func WithDefaultGlass(g domain.GlassType) Option {
	return func(e *Engine) {
		e.defaultGlass = g
	}
}

// WithStrictCapacity makes pours that would overflow the glass fail with
// domain.ErrOverflow. Off by default: the glass simply overflows.
func WithStrictCapacity(strict bool) Option {
	return func(e *Engine) {
		e.strictCapacity = strict
	}
}

// WithTracer sets the tracer used for playback spans.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = t
	}
}

// WithMeter sets the meter used for action counters.
func WithMeter(m metric.Meter) Option {
	return func(e *Engine) {
		e.meter = m
	}
}

// Engine manages bar sessions. It depends only on interfaces and is
// fully testable with in-memory implementations.
type Engine struct {
	catalog domain.Catalog
	store   domain.SessionStore
	interp  Interpreter
	log     *logger.Logger

	stepDelay      time.Duration
	pourGap        time.Duration
	defaultGlass   domain.GlassType
	strictCapacity bool

	tracer  trace.Tracer
	meter   metric.Meter
	actions metric.Int64Counter
	undos   metric.Int64Counter
	plays   metric.Int64Counter

	// mu serialises load-modify-save cycles so a running playback and
	// live commands on the same session don't lose each other's steps.
	mu      sync.Mutex
	playing map[string]context.CancelFunc
}

// New creates a bar engine with the given dependencies and options.
func New(catalog domain.Catalog, store domain.SessionStore, interp Interpreter, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		catalog:      catalog,
		store:        store,
		interp:       interp,
		log:          log,
		stepDelay:    DefaultStepDelay,
		pourGap:      DefaultPourGap,
		defaultGlass: domain.GlassRocks,
		tracer:       otel.Tracer(InstrumentationName),
		meter:        otel.Meter(InstrumentationName),
		playing:      make(map[string]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.actions = counter(e.meter, "ottobar_actions_total", "Actions applied to drinks", log)
	e.undos = counter(e.meter, "ottobar_undos_total", "Undo operations", log)
	e.plays = counter(e.meter, "ottobar_playbacks_total", "Recipe playbacks started", log)
	return e
}

// Catalog returns the ingredient catalog the engine resolves IDs against.
func (e *Engine) Catalog() domain.Catalog {
	return e.catalog
}

// StartSession begins a new session with an empty glass.
func (e *Engine) StartSession(ctx context.Context) (*domain.Session, error) {
	now := time.Now()
	session := &domain.Session{
		ID:        generateID(),
		Drink:     drink.New(e.defaultGlass),
		Status:    domain.SessionActive,
		StartedAt: now,
		UpdatedAt: now,
	}

	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	e.log.Info("started session %s (%s)", session.ID, session.Drink.Glass)
	return session, nil
}

// Status returns the full session state.
func (e *Engine) Status(ctx context.Context, sessionID string) (*domain.Session, error) {
	return e.store.Load(ctx, sessionID)
}

// Apply performs one action on the session's drink.
func (e *Engine) Apply(ctx context.Context, sessionID string, action domain.Action) (*domain.Session, error) {
	if !drink.Valid(action) {
		return nil, fmt.Errorf("%s: %w", action.Type, domain.ErrInvalidAction)
	}

	return e.update(ctx, sessionID, func(s *domain.Session) error {
		if e.strictCapacity && action.Type == domain.ActionPour && action.Amount > drink.Remaining(s.Drink) {
			return fmt.Errorf("pouring %sml into %s with %sml left: %w",
				drink.FormatAmount(action.Amount), s.Drink.Glass,
				drink.FormatAmount(drink.Remaining(s.Drink)), domain.ErrOverflow)
		}
		s.Drink = drink.Apply(s.Drink, action)
		e.actions.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action.Type.String())))
		e.log.Debug("session %s: %s", sessionID, s.Drink.Steps[len(s.Drink.Steps)-1].Description)
		return nil
	})
}

// Pour adds amount ml of a catalog ingredient.
func (e *Engine) Pour(ctx context.Context, sessionID, ingredientID string, amount float64) (*domain.Session, error) {
	ing, err := e.catalog.ByID(ingredientID)
	if err != nil {
		return nil, fmt.Errorf("looking up ingredient %q: %w", ingredientID, err)
	}
	return e.PourIngredient(ctx, sessionID, ing, amount)
}

// PourIngredient adds amount ml of any ingredient, catalog or not.
func (e *Engine) PourIngredient(ctx context.Context, sessionID string, ing domain.Ingredient, amount float64) (*domain.Session, error) {
	return e.Apply(ctx, sessionID, domain.Action{Type: domain.ActionPour, Ingredient: &ing, Amount: amount})
}

// AddIce puts ice in the glass.
func (e *Engine) AddIce(ctx context.Context, sessionID string) (*domain.Session, error) {
	return e.Apply(ctx, sessionID, domain.Action{Type: domain.ActionAddIce})
}

// Stir mixes the drink gently.
func (e *Engine) Stir(ctx context.Context, sessionID string) (*domain.Session, error) {
	return e.Apply(ctx, sessionID, domain.Action{Type: domain.ActionStir})
}

// Shake mixes the drink hard.
func (e *Engine) Shake(ctx context.Context, sessionID string) (*domain.Session, error) {
	return e.Apply(ctx, sessionID, domain.Action{Type: domain.ActionShake})
}

// Garnish decorates the drink with a catalog ingredient.
func (e *Engine) Garnish(ctx context.Context, sessionID, ingredientID string) (*domain.Session, error) {
	ing, err := e.catalog.ByID(ingredientID)
	if err != nil {
		return nil, fmt.Errorf("looking up garnish %q: %w", ingredientID, err)
	}
	return e.Apply(ctx, sessionID, domain.Action{Type: domain.ActionGarnish, Ingredient: &ing})
}

// Undo removes the last step. Undoing an empty drink is a no-op.
func (e *Engine) Undo(ctx context.Context, sessionID string) (*domain.Session, error) {
	return e.update(ctx, sessionID, func(s *domain.Session) error {
		if len(s.Drink.Steps) == 0 {
			e.log.Debug("session %s: nothing to undo", sessionID)
			return nil
		}
		last := s.Drink.Steps[len(s.Drink.Steps)-1]
		s.Drink = drink.Undo(s.Drink)
		e.undos.Add(ctx, 1)
		e.log.Info("session %s: undid %q", sessionID, last.Description)
		return nil
	})
}

// Reset empties the glass and forgets the recipe. The glass type stays.
func (e *Engine) Reset(ctx context.Context, sessionID string) (*domain.Session, error) {
	return e.update(ctx, sessionID, func(s *domain.Session) error {
		s.Drink = drink.Reset(s.Drink)
		s.Recipe = nil
		e.log.Info("session %s reset", sessionID)
		return nil
	})
}

// SelectGlass moves the drink into another glass.
func (e *Engine) SelectGlass(ctx context.Context, sessionID string, glass domain.GlassType) (*domain.Session, error) {
	return e.update(ctx, sessionID, func(s *domain.Session) error {
		s.Drink = drink.WithGlass(s.Drink, glass)
		if drink.Overflowing(s.Drink) {
			e.log.Warn("session %s: %sml does not fit in a %s", sessionID,
				drink.FormatAmount(s.Drink.CurrentVolume), glass)
		}
		return nil
	})
}

// Stats returns the derived numbers for the session's drink.
func (e *Engine) Stats(ctx context.Context, sessionID string) (domain.Stats, error) {
	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("loading session: %w", err)
	}
	return drink.Stats(session.Drink), nil
}

// Finish marks the drink as served.
func (e *Engine) Finish(ctx context.Context, sessionID string) (*domain.Session, error) {
	e.StopPlayback(sessionID)
	return e.update(ctx, sessionID, func(s *domain.Session) error {
		s.Status = domain.SessionFinished
		e.log.Info("session %s finished (%sml)", sessionID, drink.FormatAmount(s.Drink.CurrentVolume))
		return nil
	})
}

// Abandon marks a session as abandoned.
func (e *Engine) Abandon(ctx context.Context, sessionID string) error {
	e.StopPlayback(sessionID)
	_, err := e.update(ctx, sessionID, func(s *domain.Session) error {
		s.Status = domain.SessionAbandoned
		e.log.Info("session %s abandoned", sessionID)
		return nil
	})
	return err
}

// Gallery returns the served drinks, most recent first.
func (e *Engine) Gallery(ctx context.Context) ([]*domain.Session, error) {
	served, err := e.store.ListFinished(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing served drinks: %w", err)
	}
	return served, nil
}

// DeleteSaved removes a served drink from the gallery. Sessions that were
// never served are left alone.
func (e *Engine) DeleteSaved(ctx context.Context, sessionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if session.Status != domain.SessionFinished {
		return fmt.Errorf("%w: session %s was not served", domain.ErrInvalidAction, sessionID)
	}
	if err := e.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	e.log.Info("session %s removed from gallery", sessionID)
	return nil
}

// update loads an active session, lets fn change it and saves it back.
// If fn fails nothing is saved.
func (e *Engine) update(ctx context.Context, sessionID string, fn func(*domain.Session) error) (*domain.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if session.Status != domain.SessionActive {
		return nil, domain.ErrSessionNotActive
	}

	if err := fn(session); err != nil {
		return nil, err
	}

	session.UpdatedAt = time.Now()
	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return session, nil
}

func counter(m metric.Meter, name, desc string, log *logger.Logger) metric.Int64Counter {
	c, err := m.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		log.Warn("creating counter %s: %v", name, err)
		return noop.Int64Counter{}
	}
	return c
}
