package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/alipala/ai-fantasy-rpg/internal/api"
	"github.com/alipala/ai-fantasy-rpg/pkg/quest"
	"github.com/alipala/ai-fantasy-rpg/pkg/session"
	"github.com/alipala/ai-fantasy-rpg/pkg/world"
)

// FallbackExamples is shown when example generation fails. Example
// suggestions are advisory; their failure never blocks the loop.
var FallbackExamples = []string{"Look around", "Talk", "Explore"}

var (
	ErrEmptyAction = errors.New("action is empty")
	ErrBusy        = errors.New("an action is already in flight")
)

// Interaction owns the action round trip: submit the player's text,
// apply the authoritative response to the session, refresh suggestions,
// and signal completion when the backend reports the puzzle solved.
// Submissions run in UI command goroutines, so the single-flight guard
// is atomic.
type Interaction struct {
	state  *session.State
	gw     Gateway
	logger *slog.Logger
	busy   atomic.Bool
}

func NewInteraction(state *session.State, gw Gateway, logger *slog.Logger) *Interaction {
	return &Interaction{
		state:  state,
		gw:     gw,
		logger: logger,
	}
}

// StartResult seeds the playing screen after a successful startup.
// Inventory is the snapshot applied to the session, carried along so
// the renderer never has to read shared state mid-flight.
type StartResult struct {
	Welcome   string
	Image     *api.Image
	Inventory session.Inventory
	Progress  *quest.Progress
	Examples  []string
}

// TurnResult carries one completed action round trip.
type TurnResult struct {
	Action    string
	Response  string
	Image     *api.Image
	ItemUsed  string
	Inventory session.Inventory
	Progress  *quest.Progress
	Solved    bool
	World     *world.World
	Character *world.Character
	Examples  []string
}

// Busy reports whether a submission is in flight.
func (ic *Interaction) Busy() bool { return ic.busy.Load() }

// StartGame awaits the character's inventory, then starts the narrative
// session. The inventory load must succeed before the game starts; a
// logical error in the start response aborts the whole startup.
func (ic *Interaction) StartGame(ctx context.Context) (*StartResult, error) {
	st := ic.state
	if st.World == nil || st.Kingdom == nil || st.Character == nil {
		return nil, fmt.Errorf("cannot start game before character selection")
	}

	inventory, err := ic.gw.LoadInventory(ctx, st.Character.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load character inventory: %w", err)
	}

	resp, err := ic.gw.StartGame(ctx, api.StartGameRequest{
		Character: st.Character.Name,
		World:     st.World.Name,
		Kingdom:   st.Kingdom.Name,
	})
	if err != nil {
		return nil, err
	}

	st.SetInventory(inventory)
	welcome := fmt.Sprintf("Welcome to %s! You are %s in %s. %s",
		st.World.Name, st.Character.Name, resp.Location.Name, resp.Location.Description)
	st.ResetHistory()
	st.RecordTurn("game_start", welcome)

	if resp.PuzzleProgress != nil {
		ic.applyProgress(resp.PuzzleProgress)
	}
	examples := ic.RefreshExamples(ctx, resp.Message)

	ic.logger.Info("game started",
		"session", st.ID,
		"world", st.World.Name,
		"character", st.Character.Name,
		"location", resp.Location.Name)

	return &StartResult{
		Welcome:   welcome,
		Image:     resp.InitialImage,
		Inventory: inventory,
		Progress:  st.Progress,
		Examples:  examples,
	}, nil
}

// Submit runs one action cycle. Blank input is rejected before any
// network call, and at most one submission is in flight at a time. On
// any failure the session state is left exactly as it was.
func (ic *Interaction) Submit(ctx context.Context, action string) (*TurnResult, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return nil, ErrEmptyAction
	}
	if !ic.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer ic.busy.Store(false)

	resp, err := ic.gw.SubmitAction(ctx, action)
	if err != nil {
		// Transport and logical failures alike: no state mutation.
		return nil, err
	}
	if resp.Inventory == nil {
		// The inventory field is required; a reply without it must not
		// clear what the player holds.
		return nil, api.ErrMissingInventory
	}

	ic.state.SetInventory(resp.Inventory)
	ic.state.RecordTurn(action, resp.Response)
	examples := ic.RefreshExamples(ctx, resp.Response)
	if resp.PuzzleProgress != nil {
		ic.applyProgress(resp.PuzzleProgress)
	}

	return &TurnResult{
		Action:    action,
		Response:  resp.Response,
		Image:     resp.Image,
		ItemUsed:  resp.ItemUsed,
		Inventory: resp.Inventory,
		Progress:  ic.state.Progress,
		Solved:    resp.PuzzleSolved,
		World:     resp.World,
		Character: resp.Character,
		Examples:  examples,
	}, nil
}

// RefreshExamples asks the backend for fresh action suggestions built
// from the current session context. Any failure falls back to a fixed
// set and is never propagated.
func (ic *Interaction) RefreshExamples(ctx context.Context, narrative string) []string {
	examples, err := ic.gw.GenerateExamples(ctx, api.ExamplesRequest{
		Context:   narrative,
		Location:  ic.state.Town,
		Inventory: ic.state.Inventory,
		History:   ic.state.History,
	})
	if err != nil {
		ic.logger.Warn("example generation failed, using fallback", "error", err)
		examples = append([]string(nil), FallbackExamples...)
	}
	ic.state.SetExamples(examples)
	return examples
}

// applyProgress installs a server-supplied progress update. Progress is
// a side channel: an invalid payload is logged and dropped.
func (ic *Interaction) applyProgress(p *quest.Progress) {
	if err := p.Validate(); err != nil {
		ic.logger.Warn("ignoring invalid puzzle progress", "error", err)
		return
	}
	ic.state.SetProgress(p)
}
