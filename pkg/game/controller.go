package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/dayscene/pkg/content"
	"github.com/jwebster45206/dayscene/pkg/save"
	"github.com/jwebster45206/dayscene/pkg/state"
	"github.com/jwebster45206/dayscene/pkg/storage"
)

// ContentLoader produces a fresh Content on every call.
type ContentLoader interface {
	Load() (*content.Content, error)
}

// Controller runs one playthrough. Clients send it Commands and draw the
// View it returns; all game rules live in package state. Safe for
// concurrent use.
type Controller struct {
	mu      sync.Mutex
	loader  ContentLoader
	store   storage.SaveStore
	format  save.Format
	logger  *slog.Logger
	events  Publisher
	content *content.Content
	state   *state.GameState
}

// New loads content and starts a playthrough at the first scene. store may be
// nil, in which case save and load fail with save.ErrPersistence. A nil logger
// uses slog.Default().
func New(loader ContentLoader, store storage.SaveStore, format save.Format, logger *slog.Logger) (*Controller, error) {
	c, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	if format == "" {
		format = save.FormatYAML
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		loader:  loader,
		store:   store,
		format:  format,
		logger:  logger,
		content: c,
		state:   state.NewGameState(c),
	}, nil
}

// SetPublisher sends future progression events to p. A nil p disables events.
func (c *Controller) SetPublisher(p Publisher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = p
}

// ID identifies the playthrough. It survives loads.
func (c *Controller) ID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.ID
}

// View renders the current screen.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return buildView(c.content, c.state)
}

// Dispatch applies cmd and returns the resulting view. On error the game is
// unchanged and the returned view shows the unchanged state.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	switch cmd.Type {
	case CmdToggle:
		err = c.state.ToggleOption(cmd.Option)
	case CmdSubmit:
		var result state.SceneResult
		result, err = c.state.Submit()
		if err == nil {
			c.logger.Info("Scene submitted",
				"game_id", c.state.ID,
				"day", c.state.DayIndex(),
				"scene", result.SceneIndex,
				"selected", result.SelectedOptions,
				"score", result.Score)
			c.publish(ctx, EventSceneSubmitted, map[string]any{
				"scene_index": result.SceneIndex,
				"selected":    result.SelectedOptions,
				"effects":     result.Effects,
				"score":       result.Score,
			})
		}
	case CmdAdvance:
		err = c.state.AdvanceDay()
		if err == nil {
			c.logger.Info("Day advanced", "game_id", c.state.ID, "day", c.state.DayIndex(), "phase", c.state.Phase())
			if c.state.Phase() == state.PhaseComplete {
				c.publish(ctx, EventGameComplete, map[string]any{"global_stats": c.state.GlobalStats()})
			} else {
				c.publish(ctx, EventDayAdvanced, nil)
			}
		}
	case CmdSave:
		err = c.save(ctx, cmd.Slot)
	case CmdLoad:
		err = c.load(ctx, cmd.Slot)
	default:
		err = fmt.Errorf("%w: unknown command type %q", ErrBadCommand, cmd.Type)
	}

	if err != nil {
		c.logger.Debug("Command rejected", "game_id", c.state.ID, "command", cmd.Type, "error", err)
	}
	return buildView(c.content, c.state), err
}

// Save writes the current snapshot to slot. The game is never changed.
func (c *Controller) Save(ctx context.Context, slot string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, slot)
}

// Load replaces the game with the one saved in slot. Content is reloaded so the
// restored game starts from pristine scenes; on any failure the current game
// is kept.
func (c *Controller) Load(ctx context.Context, slot string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx, slot)
}

func (c *Controller) save(ctx context.Context, slot string) error {
	if slot == "" {
		slot = storage.DefaultSlot
	}
	if err := storage.ValidateSlot(slot); err != nil {
		return fmt.Errorf("%w: %v", ErrBadCommand, err)
	}
	if c.store == nil {
		return fmt.Errorf("%w: no save store configured", save.ErrPersistence)
	}

	data, err := save.Save(c.state.Snapshot(), c.format)
	if err != nil {
		return err
	}
	if err := c.store.PutSave(ctx, slot, data); err != nil {
		c.logger.Error("Failed to write save", "slot", slot, "error", err)
		return fmt.Errorf("%w: %w", save.ErrPersistence, err)
	}

	c.logger.Info("Game saved", "game_id", c.state.ID, "slot", slot)
	c.publish(ctx, EventGameSaved, map[string]any{"slot": slot})
	return nil
}

func (c *Controller) load(ctx context.Context, slot string) error {
	if slot == "" {
		slot = storage.DefaultSlot
	}
	if err := storage.ValidateSlot(slot); err != nil {
		return fmt.Errorf("%w: %v", ErrBadCommand, err)
	}
	if c.store == nil {
		return fmt.Errorf("%w: no save store configured", save.ErrPersistence)
	}

	data, err := c.store.GetSave(ctx, slot)
	if err != nil {
		return fmt.Errorf("%w: %w", save.ErrPersistence, err)
	}
	snap, err := save.Load(data, c.format)
	if err != nil {
		return err
	}

	fresh, err := c.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to reload content: %w", err)
	}
	gs := state.NewGameState(fresh)
	if err := gs.Restore(snap); err != nil {
		return fmt.Errorf("%w: save does not fit the loaded content: %w", save.ErrPersistence, err)
	}
	gs.ID = c.state.ID

	c.content = fresh
	c.state = gs
	c.logger.Info("Game loaded", "game_id", gs.ID, "slot", slot, "day", gs.DayIndex(), "scene", gs.SceneIndex())
	c.publish(ctx, EventGameLoaded, map[string]any{"slot": slot})
	return nil
}

// publish must be called with c.mu held.
func (c *Controller) publish(ctx context.Context, t EventType, data map[string]any) {
	if c.events == nil {
		return
	}
	event := Event{
		Type:   t,
		GameID: c.state.ID,
		Day:    c.state.DayIndex(),
		Scene:  c.state.SceneIndex(),
		Data:   data,
	}
	if err := c.events.Publish(ctx, event); err != nil {
		c.logger.Warn("Failed to publish event", "game_id", c.state.ID, "event_type", t, "error", err)
	}
}
