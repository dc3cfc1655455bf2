package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alipala/ai-fantasy-rpg/internal/api"
	"github.com/alipala/ai-fantasy-rpg/pkg/quest"
	"github.com/alipala/ai-fantasy-rpg/pkg/session"
	"github.com/alipala/ai-fantasy-rpg/pkg/world"
)

func playingSession(t *testing.T) *session.State {
	t.Helper()
	st := session.New()
	st.Begin()
	st.SelectWorld(world.World{Name: "Kyropeia"})
	require.NoError(t, st.SelectKingdom(world.Kingdom{Name: "Zephyria"}))
	require.NoError(t, st.SelectTown(world.Town{Name: "Briarwood"}))
	require.NoError(t, st.SelectCharacter(world.Character{Name: "Aria", HasPuzzle: true}))
	return st
}

func TestStartGame(t *testing.T) {
	st := playingSession(t)
	gw := NewMockGateway()
	gw.LoadInventoryFunc = func(ctx context.Context, character string) (session.Inventory, error) {
		return session.Inventory{"gold": 5}, nil
	}
	gw.StartGameFunc = func(ctx context.Context, req api.StartGameRequest) (*api.StartGameResponse, error) {
		assert.Equal(t, api.StartGameRequest{Character: "Aria", World: "Kyropeia", Kingdom: "Zephyria"}, req)
		return &api.StartGameResponse{
			Location: api.Location{Name: "Briarwood", Description: "A quiet town."},
			Message:  "Your story begins.",
			PuzzleProgress: &quest.Progress{
				MainPuzzle: "Restore the bridge", CompletedTasks: 0, TotalTasks: 3,
			},
		}, nil
	}
	gw.GenerateExamplesFunc = func(ctx context.Context, req api.ExamplesRequest) ([]string, error) {
		return []string{"Inspect the bridge"}, nil
	}

	ic := NewInteraction(st, gw, testLogger())
	result, err := ic.StartGame(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Welcome to Kyropeia! You are Aria in Briarwood. A quiet town.", result.Welcome)
	assert.Equal(t, session.Inventory{"gold": 5}, st.Inventory)
	require.Len(t, st.History, 1)
	assert.Equal(t, "game_start", st.History[0].Action)
	require.NotNil(t, st.Progress)
	assert.Equal(t, 3, st.Progress.TotalTasks)
	assert.Equal(t, []string{"Inspect the bridge"}, result.Examples)

	// Inventory is awaited before the game starts.
	require.Len(t, gw.LoadInventoryCalls, 1)
	require.Len(t, gw.StartGameCalls, 1)
}

func TestStartGameMissingInventoryAborts(t *testing.T) {
	st := playingSession(t)
	gw := NewMockGateway()
	gw.LoadInventoryFunc = func(ctx context.Context, character string) (session.Inventory, error) {
		return nil, api.ErrMissingInventory
	}

	ic := NewInteraction(st, gw, testLogger())
	_, err := ic.StartGame(context.Background())
	require.ErrorIs(t, err, api.ErrMissingInventory)
	assert.Empty(t, gw.StartGameCalls, "start-game must not be called without inventory")
}

func TestStartGameLogicalErrorAborts(t *testing.T) {
	st := playingSession(t)
	gw := NewMockGateway()
	gw.StartGameFunc = func(ctx context.Context, req api.StartGameRequest) (*api.StartGameResponse, error) {
		return nil, &api.LogicalError{Message: "world generation failed"}
	}

	ic := NewInteraction(st, gw, testLogger())
	_, err := ic.StartGame(context.Background())
	var logicalErr *api.LogicalError
	require.ErrorAs(t, err, &logicalErr)
	assert.Empty(t, st.History)
	assert.Empty(t, st.Inventory)
}

func TestStartGameBeforeSelection(t *testing.T) {
	ic := NewInteraction(session.New(), NewMockGateway(), testLogger())
	_, err := ic.StartGame(context.Background())
	assert.Error(t, err)
}

func TestSubmitRejectsBlankInput(t *testing.T) {
	st := playingSession(t)
	gw := NewMockGateway()
	ic := NewInteraction(st, gw, testLogger())

	for _, input := range []string{"", "   ", "\t\n"} {
		_, err := ic.Submit(context.Background(), input)
		assert.ErrorIs(t, err, ErrEmptyAction)
	}
	assert.Empty(t, gw.SubmitActionCalls, "blank input must not reach the backend")
}

func TestSubmitAppliesResponse(t *testing.T) {
	st := playingSession(t)
	st.SetInventory(session.Inventory{"gold": 5})

	gw := NewMockGateway()
	gw.SubmitActionFunc = func(ctx context.Context, action string) (*api.ActionResponse, error) {
		return &api.ActionResponse{
			Response:  "You pick up a stick.",
			Inventory: session.Inventory{"gold": 5, "stick": 1},
		}, nil
	}
	gw.GenerateExamplesFunc = func(ctx context.Context, req api.ExamplesRequest) ([]string, error) {
		// Examples are generated against the already-updated session.
		assert.Equal(t, "You pick up a stick.", req.Context)
		assert.Equal(t, session.Inventory{"gold": 5, "stick": 1}, req.Inventory)
		return []string{"Wave the stick"}, nil
	}

	ic := NewInteraction(st, gw, testLogger())
	result, err := ic.Submit(context.Background(), "pick up stick")
	require.NoError(t, err)

	assert.Equal(t, "pick up stick", result.Action)
	assert.Equal(t, "You pick up a stick.", result.Response)

	// Inventory equals exactly the response's inventory; no merging.
	assert.Equal(t, session.Inventory{"gold": 5, "stick": 1}, st.Inventory)
	assert.Equal(t, []string{"gold", "stick"}, st.VisibleInventory())

	require.Len(t, st.History, 1)
	assert.Equal(t, session.Turn{Action: "pick up stick", Response: "You pick up a stick."}, st.History[0])
	assert.Equal(t, []string{"Wave the stick"}, st.Examples)
}

func TestSubmitLogicalErrorLeavesStateUntouched(t *testing.T) {
	st := playingSession(t)
	st.SetInventory(session.Inventory{"gold": 5})
	st.RecordTurn("look", "You see a town.")

	gw := NewMockGateway()
	gw.SubmitActionFunc = func(ctx context.Context, action string) (*api.ActionResponse, error) {
		return nil, &api.LogicalError{Message: "the spirits are silent"}
	}

	ic := NewInteraction(st, gw, testLogger())
	_, err := ic.Submit(context.Background(), "shout")

	var logicalErr *api.LogicalError
	require.ErrorAs(t, err, &logicalErr)
	assert.Equal(t, "the spirits are silent", logicalErr.Message)

	assert.Equal(t, session.Inventory{"gold": 5}, st.Inventory)
	require.Len(t, st.History, 1)
	assert.Equal(t, "look", st.History[0].Action)
	assert.Empty(t, gw.GenerateExamplesCalls, "no example refresh on the error path")
}

func TestSubmitMissingInventoryLeavesStateUntouched(t *testing.T) {
	st := playingSession(t)
	st.SetInventory(session.Inventory{"gold": 5, "rope": 1})

	gw := NewMockGateway()
	gw.SubmitActionFunc = func(ctx context.Context, action string) (*api.ActionResponse, error) {
		return &api.ActionResponse{Response: "You look around."}, nil
	}

	ic := NewInteraction(st, gw, testLogger())
	_, err := ic.Submit(context.Background(), "look around")

	require.ErrorIs(t, err, api.ErrMissingInventory)
	assert.Equal(t, session.Inventory{"gold": 5, "rope": 1}, st.Inventory,
		"a reply without the inventory field must not wipe the inventory")
	assert.Empty(t, st.History)
	assert.Empty(t, gw.GenerateExamplesCalls)
	assert.False(t, ic.Busy())
}

func TestSubmitTransportErrorLeavesStateUntouched(t *testing.T) {
	st := playingSession(t)
	st.SetInventory(session.Inventory{"gold": 5})

	gw := NewMockGateway()
	gw.SubmitActionFunc = func(ctx context.Context, action string) (*api.ActionResponse, error) {
		return nil, &api.TransportError{Err: assert.AnError}
	}

	ic := NewInteraction(st, gw, testLogger())
	_, err := ic.Submit(context.Background(), "look")

	var transportErr *api.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, session.Inventory{"gold": 5}, st.Inventory)
	assert.Empty(t, st.History)
	assert.False(t, ic.Busy(), "controls must be re-enabled after a failed request")
}

func TestSubmitSingleFlight(t *testing.T) {
	st := playingSession(t)
	gw := NewMockGateway()

	release := make(chan struct{})
	started := make(chan struct{})
	gw.SubmitActionFunc = func(ctx context.Context, action string) (*api.ActionResponse, error) {
		close(started)
		<-release
		return &api.ActionResponse{Response: "done", Inventory: session.Inventory{}}, nil
	}

	ic := NewInteraction(st, gw, testLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = ic.Submit(context.Background(), "slow action")
	}()

	<-started
	_, err := ic.Submit(context.Background(), "second action")
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	<-done
	assert.False(t, ic.Busy())
}

func TestExampleGenerationFailureFallsBack(t *testing.T) {
	st := playingSession(t)
	gw := NewMockGateway()
	gw.SubmitActionFunc = func(ctx context.Context, action string) (*api.ActionResponse, error) {
		return &api.ActionResponse{Response: "ok", Inventory: session.Inventory{}}, nil
	}
	gw.GenerateExamplesFunc = func(ctx context.Context, req api.ExamplesRequest) ([]string, error) {
		return nil, &api.TransportError{Err: assert.AnError}
	}

	ic := NewInteraction(st, gw, testLogger())
	result, err := ic.Submit(context.Background(), "look")
	require.NoError(t, err, "advisory failure must not abort the turn")
	assert.Equal(t, FallbackExamples, result.Examples)
	assert.Equal(t, FallbackExamples, st.Examples)
}

func TestSubmitInvalidProgressDropped(t *testing.T) {
	st := playingSession(t)
	gw := NewMockGateway()
	gw.SubmitActionFunc = func(ctx context.Context, action string) (*api.ActionResponse, error) {
		return &api.ActionResponse{
			Response:       "ok",
			Inventory:      session.Inventory{},
			PuzzleProgress: &quest.Progress{CompletedTasks: 9, TotalTasks: 3},
		}, nil
	}

	ic := NewInteraction(st, gw, testLogger())
	_, err := ic.Submit(context.Background(), "look")
	require.NoError(t, err)
	assert.Nil(t, st.Progress)
}

func TestSubmitSolvedSignal(t *testing.T) {
	st := playingSession(t)
	gw := NewMockGateway()
	gw.SubmitActionFunc = func(ctx context.Context, action string) (*api.ActionResponse, error) {
		return &api.ActionResponse{
			Response:     "You win.",
			Inventory:    session.Inventory{},
			PuzzleSolved: true,
			World:        &world.World{Name: "Kyropeia"},
			Character:    &world.Character{Name: "Aria"},
		}, nil
	}

	ic := NewInteraction(st, gw, testLogger())
	result, err := ic.Submit(context.Background(), "place the final stone")
	require.NoError(t, err)
	assert.True(t, result.Solved)
	require.NotNil(t, result.World)
	assert.Equal(t, "Kyropeia", result.World.Name)
}

func TestHistoryCapAcrossTurns(t *testing.T) {
	st := playingSession(t)
	gw := NewMockGateway()
	ic := NewInteraction(st, gw, testLogger())

	for i := 0; i < 14; i++ {
		_, err := ic.Submit(context.Background(), "look")
		require.NoError(t, err)
	}
	assert.Len(t, st.History, session.HistoryLimit)
}
