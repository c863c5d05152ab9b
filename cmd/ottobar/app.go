package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hammamikhairi/ottobar/internal/catalog"
	"github.com/hammamikhairi/ottobar/internal/conversation"
	"github.com/hammamikhairi/ottobar/internal/display"
	"github.com/hammamikhairi/ottobar/internal/domain"
	"github.com/hammamikhairi/ottobar/internal/drink"
	"github.com/hammamikhairi/ottobar/internal/engine"
	"github.com/hammamikhairi/ottobar/internal/gpt"
	"github.com/hammamikhairi/ottobar/internal/logger"
	"github.com/hammamikhairi/ottobar/internal/mission"
	"github.com/hammamikhairi/ottobar/internal/recipe"
)

// defaultPour is used when "pour" is given no amount.
const defaultPour = 30

type cliApp struct {
	engine    *engine.Engine
	shelf     *catalog.Catalog
	book      *recipe.Book
	parser    *conversation.CommandParser
	bartender *gpt.Bartender // nil when AI is disabled
	evaluator *mission.Evaluator
	log       *logger.Logger
	ui        *display.UI
	sessionID string        // drink on the bench
	recipe    *domain.Recipe // last made or played recipe
}

func (a *cliApp) run(ctx context.Context) {
	a.ui.PrintChat(conversation.LineWelcome())

	uiCh := a.ui.InputChan()
	for {
		var input string
		var ok bool

		select {
		case <-ctx.Done():
			return
		case input, ok = <-uiCh:
			if !ok {
				return
			}
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		cmd := a.parser.Parse(input)
		a.log.Debug("command: %s %v", cmd.Type, cmd.Args)
		if quit := a.handle(ctx, cmd); quit {
			return
		}
	}
}

// handle runs one command. It returns true when the user asked to leave.
func (a *cliApp) handle(ctx context.Context, cmd conversation.Command) bool {
	switch cmd.Type {
	case conversation.CmdPour:
		a.pour(ctx, cmd.Arg(0), cmd.Arg(1))
	case conversation.CmdIce:
		a.act(ctx, a.engine.AddIce)
	case conversation.CmdStir:
		a.act(ctx, a.engine.Stir)
	case conversation.CmdShake:
		a.act(ctx, a.engine.Shake)
	case conversation.CmdGarnish:
		a.garnish(ctx, cmd.Arg(0))
	case conversation.CmdUndo:
		a.undo(ctx)
	case conversation.CmdReset:
		a.act(ctx, a.engine.Reset)
	case conversation.CmdGlass:
		a.selectGlass(ctx, cmd.Arg(0))
	case conversation.CmdStats:
		a.stats(ctx)
	case conversation.CmdPlay:
		a.play(ctx, cmd.Arg(0))
	case conversation.CmdStop:
		if !a.engine.StopPlayback(a.sessionID) {
			a.ui.PrintChat(conversation.LineNothingPlaying())
		}
	case conversation.CmdMake:
		a.make(ctx, cmd.Arg(0))
	case conversation.CmdAsk:
		a.ask(ctx, cmd.Arg(0))
	case conversation.CmdFinish:
		a.finish(ctx)
	case conversation.CmdJudge:
		a.judge(ctx, cmd.Arg(0))
	case conversation.CmdList:
		a.showShelf(cmd.Arg(0))
	case conversation.CmdMenu:
		a.showMenu()
	case conversation.CmdGallery:
		a.showGallery(ctx)
	case conversation.CmdOpen:
		a.openSaved(ctx, cmd.Arg(0))
	case conversation.CmdDelete:
		a.deleteSaved(ctx, cmd.Arg(0))
	case conversation.CmdHelp:
		for _, line := range strings.Split(conversation.Help, "\n") {
			a.ui.PrintInstruction(line)
		}
	case conversation.CmdQuit:
		a.quit(ctx)
		return true
	default:
		a.ui.PrintChat(conversation.LineUnknown(cmd.Raw))
	}
	return false
}

// newSession puts a fresh glass on the bench.
func (a *cliApp) newSession(ctx context.Context) error {
	s, err := a.engine.StartSession(ctx)
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	a.sessionID = s.ID
	a.ui.SetSession(s.ID)
	return nil
}

// act runs a live engine operation and reports failures.
func (a *cliApp) act(ctx context.Context, op func(context.Context, string) (*domain.Session, error)) {
	if _, err := op(ctx, a.sessionID); err != nil {
		a.reportError(err)
	}
}

func (a *cliApp) reportError(err error) {
	switch {
	case errors.Is(err, domain.ErrOverflow):
		a.ui.PrintUrgent(conversation.LineOverflow())
	case errors.Is(err, domain.ErrInvalidAction):
		a.ui.PrintUrgent(fmt.Sprintf("做不到：%v", err))
	default:
		a.log.Error("session %s: %v", a.sessionID, err)
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
	}
}

// lookup finds a shelf ingredient by ID first, then by name.
func (a *cliApp) lookup(name string) (domain.Ingredient, bool) {
	if ing, err := a.shelf.ByID(name); err == nil {
		return ing, true
	}
	return a.shelf.Find(name)
}

func (a *cliApp) pour(ctx context.Context, name, amount string) {
	ing, ok := a.lookup(name)
	if !ok {
		a.ui.PrintChat(conversation.LineUnknownIngredient(name))
		return
	}

	ml := float64(defaultPour)
	if amount != "" {
		v, err := strconv.ParseFloat(amount, 64)
		if err != nil {
			a.ui.PrintChat(conversation.LineUnknown(amount))
			return
		}
		ml = v
	}

	if _, err := a.engine.PourIngredient(ctx, a.sessionID, ing, ml); err != nil {
		a.reportError(err)
	}
}

func (a *cliApp) garnish(ctx context.Context, name string) {
	ing, ok := a.lookup(name)
	if !ok {
		a.ui.PrintChat(conversation.LineUnknownIngredient(name))
		return
	}
	if _, err := a.engine.Garnish(ctx, a.sessionID, ing.ID); err != nil {
		a.reportError(err)
	}
}

func (a *cliApp) undo(ctx context.Context) {
	s, err := a.engine.Status(ctx, a.sessionID)
	if err != nil {
		a.reportError(err)
		return
	}
	if len(s.Drink.Steps) == 0 {
		a.ui.PrintChat(conversation.LineEmptyGlass())
		return
	}
	a.act(ctx, a.engine.Undo)
}

func (a *cliApp) selectGlass(ctx context.Context, name string) {
	g, ok := domain.GlassFromString(strings.ToLower(name))
	if !ok {
		a.ui.PrintChat(conversation.LineUnknownGlass(name))
		return
	}
	if _, err := a.engine.SelectGlass(ctx, a.sessionID, g); err != nil {
		a.reportError(err)
		return
	}
	a.ui.PrintHint(fmt.Sprintf("换成了%s。", g.Label()))
}

func (a *cliApp) stats(ctx context.Context) {
	s, err := a.engine.Status(ctx, a.sessionID)
	if err != nil {
		a.reportError(err)
		return
	}
	a.ui.PrintStep(display.RenderStats(drink.Stats(s.Drink)))
	a.ui.PrintInstruction(display.Gauge(s.Drink))
	for _, step := range s.Drink.Steps {
		a.ui.PrintHint("· " + step.Description)
	}
}

// ── Playback ─────────────────────────────────────────────────────

// resolveRecipe picks the recipe to play: the last one when name is
// empty, then a house recipe, then a file on disk.
func (a *cliApp) resolveRecipe(name string) (*domain.Recipe, error) {
	if name == "" {
		if a.recipe == nil {
			return nil, domain.ErrNotFound
		}
		return a.recipe, nil
	}
	if r, err := a.book.Get(name); err == nil {
		return &r, nil
	}
	r, err := recipe.LoadFile(name)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (a *cliApp) play(ctx context.Context, name string) {
	if a.engine.IsPlaying(a.sessionID) {
		a.ui.PrintChat(conversation.LineAlreadyPlaying())
		return
	}

	r, err := a.resolveRecipe(name)
	if err != nil {
		if name == "" || errors.Is(err, domain.ErrNotFound) {
			a.ui.PrintChat(conversation.LineNoRecipe())
			return
		}
		a.log.Error("loading recipe %s: %v", name, err)
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	a.recipe = r
	a.ui.PrintStep(fmt.Sprintf("《%s》", r.Name))

	sessionID := a.sessionID
	go func() {
		err := a.engine.Play(ctx, sessionID, *r, func(ev engine.StepEvent) {
			a.ui.PrintInstruction(conversation.LineStep(ev.Index, ev.Total, ev.Instruction, did(ev.Action)))
		})
		switch {
		case err == nil:
			a.ui.PrintChat(conversation.LineRecipeDone(r.Name))
		case engine.IsStopped(err):
			a.ui.PrintChat(conversation.LinePlaybackStopped())
		case errors.Is(err, domain.ErrPlaybackRunning):
			a.ui.PrintChat(conversation.LineAlreadyPlaying())
		default:
			a.reportError(err)
		}
	}()
}

// did describes what playback did for one event, "" when nothing.
func did(action *domain.Action) string {
	if action == nil {
		return ""
	}
	if action.Description != "" {
		return action.Description
	}
	return drink.DefaultDescription(*action)
}

// ── Bartender ────────────────────────────────────────────────────

func (a *cliApp) make(ctx context.Context, mood string) {
	if a.bartender == nil {
		a.ui.PrintChat(conversation.LineAIDisabled())
		return
	}
	a.ui.PrintHint(conversation.LineThinkingMake())

	r, err := a.bartender.Generate(ctx, mood, "")
	if err != nil {
		a.log.Error("generate failed: %v", err)
		a.ui.PrintChat(conversation.LineAIError())
		return
	}

	a.recipe = r
	a.book.Add("last", *r)
	a.showRecipe(r)
	a.ui.PrintChat("输入 play 开始调制。")
}

func (a *cliApp) showRecipe(r *domain.Recipe) {
	a.ui.PrintStep(fmt.Sprintf("《%s》", r.Name))
	a.ui.PrintChat(r.Description)
	for _, ing := range r.Ingredients {
		a.ui.PrintInstruction(fmt.Sprintf("  %s  %s", ing.Name, ing.Amount))
	}
	for i, line := range r.Instructions {
		a.ui.PrintHint(fmt.Sprintf("%d. %s", i+1, line))
	}
	if r.Lore != "" {
		a.ui.PrintHint(r.Lore)
	}
}

func (a *cliApp) ask(ctx context.Context, question string) {
	if a.bartender == nil {
		a.ui.PrintChat(conversation.LineAIDisabled())
		return
	}
	a.ui.PrintHint(conversation.LineThinkingQuestion())

	var session *domain.Session
	if s, err := a.engine.Status(ctx, a.sessionID); err == nil {
		session = s
	}

	answer, err := a.bartender.Ask(ctx, question, session)
	if err != nil {
		a.log.Error("ask failed: %v", err)
		a.ui.PrintChat(conversation.LineAIError())
		return
	}
	a.ui.PrintChat(answer)
}

// finish serves the drink, has it critiqued when the bartender is
// around, and puts a fresh glass on the bench.
func (a *cliApp) finish(ctx context.Context) {
	s, err := a.engine.Status(ctx, a.sessionID)
	if err != nil {
		a.reportError(err)
		return
	}
	if s.Drink.CurrentVolume == 0 {
		a.ui.PrintChat(conversation.LineEmptyGlass())
		return
	}

	if a.bartender != nil {
		a.ui.PrintHint(conversation.LineThinkingCritique())
		if review, err := a.bartender.Analyze(ctx, s.Drink); err != nil {
			a.log.Error("analyze failed: %v", err)
			a.ui.PrintChat(conversation.LineAIError())
		} else {
			a.showRecipe(review)
		}
	}

	if _, err := a.engine.Finish(ctx, a.sessionID); err != nil {
		a.reportError(err)
		return
	}
	a.ui.PrintStep(display.RenderStats(drink.Stats(s.Drink)))
	if err := a.newSession(ctx); err != nil {
		a.reportError(err)
	}
}

// judge checks the drink on the bench against a mission file.
func (a *cliApp) judge(ctx context.Context, path string) {
	m, err := mission.LoadFile(path)
	if err != nil {
		a.log.Error("loading mission: %v", err)
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	s, err := a.engine.Status(ctx, a.sessionID)
	if err != nil {
		a.reportError(err)
		return
	}

	if m.NPCName != "" {
		a.ui.PrintStep(fmt.Sprintf("%s：%s", m.NPCName, m.Request))
	}
	for _, miss := range a.evaluator.Precheck(s.Drink, m) {
		a.ui.PrintHint("· " + miss)
	}

	var analysis *domain.Recipe
	if a.bartender != nil {
		a.ui.PrintHint(conversation.LineThinkingCritique())
		if analysis, err = a.bartender.Analyze(ctx, s.Drink); err != nil {
			a.log.Warn("analyze before judging failed: %v", err)
			analysis = nil
		}
	}

	res := a.evaluator.Evaluate(ctx, s.Drink, analysis, m)
	if res.Success {
		a.ui.PrintChat(conversation.LineVerdict(true, res.Reason))
		if m.Reward != "" {
			a.ui.PrintHint("奖励：" + m.Reward)
		}
		if !m.Completed {
			if err := mission.MarkCompleted(path, m); err != nil {
				a.log.Error("recording mission %s: %v", m.ID, err)
				a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
				return
			}
			a.ui.PrintHint(conversation.LineMissionRecorded())
		}
		return
	}
	a.ui.PrintUrgent(conversation.LineVerdict(false, res.Reason))
}

// ── Listings ─────────────────────────────────────────────────────

func (a *cliApp) showShelf(filter string) {
	items := a.shelf.List()
	if filter != "" {
		items = a.shelf.Search(filter)
	}
	if len(items) == 0 {
		a.ui.PrintChat(conversation.LineUnknownIngredient(filter))
		return
	}
	for _, ing := range items {
		a.ui.PrintInstruction(fmt.Sprintf("%-18s %s  %s%%", ing.ID, ing.Name, drink.FormatAmount(ing.ABV)))
	}
}

func (a *cliApp) showMenu() {
	for _, e := range a.book.List() {
		a.ui.PrintInstruction(fmt.Sprintf("%-10s %s", e.Key, e.Name))
		a.ui.PrintHint("  " + e.Description)
	}
}

// ── Gallery ──────────────────────────────────────────────────────

// savedTitle names a served drink by its recipe, if it had one.
func savedTitle(s *domain.Session) string {
	if s.Recipe != nil && s.Recipe.Name != "" {
		return s.Recipe.Name
	}
	return "无名之作"
}

func (a *cliApp) showGallery(ctx context.Context) {
	served, err := a.engine.Gallery(ctx)
	if err != nil {
		a.reportError(err)
		return
	}
	if len(served) == 0 {
		a.ui.PrintChat(conversation.LineGalleryEmpty())
		return
	}
	for i, s := range served {
		a.ui.PrintInstruction(fmt.Sprintf("%2d. %-12s %sml  %s  %s",
			i+1, savedTitle(s), drink.FormatAmount(s.Drink.CurrentVolume),
			s.Drink.Glass.Label(), s.UpdatedAt.Format("01-02 15:04")))
	}
}

// findSaved resolves a gallery reference: a session ID, a 1-based position
// in the listing, or an ID prefix.
func (a *cliApp) findSaved(ctx context.Context, ref string) (*domain.Session, error) {
	served, err := a.engine.Gallery(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range served {
		if s.ID == ref {
			return s, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(served) {
			return served[n-1], nil
		}
		return nil, domain.ErrNotFound
	}
	for _, s := range served {
		if strings.HasPrefix(s.ID, ref) {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (a *cliApp) openSaved(ctx context.Context, ref string) {
	s, err := a.findSaved(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.ui.PrintChat(conversation.LineNoSavedDrink(ref))
			return
		}
		a.reportError(err)
		return
	}

	a.ui.PrintStep(fmt.Sprintf("《%s》 %s", savedTitle(s), s.UpdatedAt.Format("2006-01-02 15:04")))
	a.ui.PrintInstruction(display.Gauge(s.Drink))
	a.ui.PrintStep(display.RenderStats(drink.Stats(s.Drink)))
	for _, step := range s.Drink.Steps {
		a.ui.PrintHint("· " + step.Description)
	}
	if s.Recipe != nil {
		// Reopening makes it the recipe "play" repeats.
		a.recipe = s.Recipe
	}
}

func (a *cliApp) deleteSaved(ctx context.Context, ref string) {
	s, err := a.findSaved(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.ui.PrintChat(conversation.LineNoSavedDrink(ref))
			return
		}
		a.reportError(err)
		return
	}
	if err := a.engine.DeleteSaved(ctx, s.ID); err != nil {
		a.reportError(err)
		return
	}
	a.ui.PrintHint(conversation.LineSavedDrinkDeleted(savedTitle(s)))
}

func (a *cliApp) quit(ctx context.Context) {
	if err := a.engine.Abandon(ctx, a.sessionID); err != nil {
		a.log.Error("abandoning session: %v", err)
	}
	a.ui.PrintChat(conversation.LineBye())
}
