package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alipala/ai-fantasy-rpg/pkg/world"
)

func TestForwardSelectionChain(t *testing.T) {
	s := New()
	assert.Equal(t, ScreenStart, s.Screen)

	s.Begin()
	assert.Equal(t, ScreenWorldSelect, s.Screen)

	s.SelectWorld(world.World{Name: "Kyropeia"})
	assert.Equal(t, ScreenKingdomSelect, s.Screen)
	require.NotNil(t, s.World)
	assert.Nil(t, s.Kingdom)
	assert.Nil(t, s.Town)
	assert.Nil(t, s.Character)

	require.NoError(t, s.SelectKingdom(world.Kingdom{Name: "Zephyria"}))
	assert.Equal(t, ScreenTownSelect, s.Screen)
	assert.Equal(t, "Kyropeia", s.World.Name) // ancestors untouched
	assert.Nil(t, s.Town)

	require.NoError(t, s.SelectTown(world.Town{Name: "Briarwood"}))
	assert.Equal(t, ScreenCharacterSelect, s.Screen)
	assert.Equal(t, "Zephyria", s.Kingdom.Name)
	assert.Nil(t, s.Character)

	require.NoError(t, s.SelectCharacter(world.Character{Name: "Aria"}))
	assert.Equal(t, ScreenPlaying, s.Screen)
	assert.Equal(t, "Briarwood", s.Town.Name)
	assert.Equal(t, "Aria", s.Character.Name)
}

func TestSelectionPreconditions(t *testing.T) {
	s := New()
	assert.Error(t, s.SelectKingdom(world.Kingdom{Name: "Zephyria"}))
	assert.Error(t, s.SelectTown(world.Town{Name: "Briarwood"}))
	assert.Error(t, s.SelectCharacter(world.Character{Name: "Aria"}))

	// Failed selections must not mutate state.
	assert.Equal(t, ScreenStart, s.Screen)
	assert.Nil(t, s.Kingdom)
	assert.Nil(t, s.Town)
	assert.Nil(t, s.Character)
}

func TestReselectWorldClearsDescendants(t *testing.T) {
	s := New()
	s.Begin()
	s.SelectWorld(world.World{Name: "Kyropeia"})
	require.NoError(t, s.SelectKingdom(world.Kingdom{Name: "Zephyria"}))
	require.NoError(t, s.SelectTown(world.Town{Name: "Briarwood"}))

	s.SelectWorld(world.World{Name: "Eldoria"})
	assert.Equal(t, "Eldoria", s.World.Name)
	assert.Nil(t, s.Kingdom)
	assert.Nil(t, s.Town)
	assert.Nil(t, s.Character)
	assert.Equal(t, ScreenKingdomSelect, s.Screen)
}

func TestGoBack(t *testing.T) {
	s := New()
	s.Begin()
	s.SelectWorld(world.World{Name: "Kyropeia"})
	require.NoError(t, s.SelectKingdom(world.Kingdom{Name: "Zephyria"}))
	require.NoError(t, s.SelectTown(world.Town{Name: "Briarwood"}))

	s.GoBack()
	assert.Equal(t, ScreenTownSelect, s.Screen)
	assert.Nil(t, s.Town)
	assert.NotNil(t, s.Kingdom)

	s.GoBack()
	assert.Equal(t, ScreenKingdomSelect, s.Screen)
	assert.Nil(t, s.Kingdom)
	assert.NotNil(t, s.World)

	s.GoBack()
	assert.Equal(t, ScreenWorldSelect, s.Screen)

	// No-op at world selection.
	s.GoBack()
	assert.Equal(t, ScreenWorldSelect, s.Screen)
	assert.NotNil(t, s.World)
}

func TestGoBackDoesNotLeavePlaying(t *testing.T) {
	s := New()
	s.Begin()
	s.SelectWorld(world.World{Name: "Kyropeia"})
	require.NoError(t, s.SelectKingdom(world.Kingdom{Name: "Zephyria"}))
	require.NoError(t, s.SelectTown(world.Town{Name: "Briarwood"}))
	require.NoError(t, s.SelectCharacter(world.Character{Name: "Aria"}))

	s.GoBack()
	assert.Equal(t, ScreenPlaying, s.Screen)
	assert.NotNil(t, s.Character)
}

func TestRecordTurnEviction(t *testing.T) {
	s := New()
	for i := 0; i < 15; i++ {
		s.RecordTurn(fmt.Sprintf("action %d", i), fmt.Sprintf("response %d", i))
	}

	require.Len(t, s.History, HistoryLimit)
	assert.Equal(t, "action 5", s.History[0].Action)
	assert.Equal(t, "action 14", s.History[len(s.History)-1].Action)
	assert.Equal(t, "response 14", s.History[len(s.History)-1].Response)
}

func TestResetHistory(t *testing.T) {
	s := New()
	s.RecordTurn("look", "You see a town.")
	s.RecordTurn("wave", "Nobody waves back.")

	s.ResetHistory()
	assert.Empty(t, s.History)

	s.RecordTurn("game_start", "Welcome.")
	require.Len(t, s.History, 1)
	assert.Equal(t, "game_start", s.History[0].Action)
}

func TestSetInventoryReplacesWholesale(t *testing.T) {
	s := New()
	s.SetInventory(Inventory{"gold": 5, "rope": 1})
	s.SetInventory(Inventory{"stick": 1})

	assert.Equal(t, Inventory{"stick": 1}, s.Inventory)

	s.SetInventory(nil)
	assert.Empty(t, s.Inventory)
	assert.NotNil(t, s.Inventory)
}

func TestVisibleInventoryHidesZeroCounts(t *testing.T) {
	s := New()
	s.SetInventory(Inventory{"gold": 5, "stick": 1, "torch": 0})

	assert.Equal(t, []string{"gold", "stick"}, s.VisibleInventory())
	// Zero-count entry is retained in the map.
	_, ok := s.Inventory["torch"]
	assert.True(t, ok)
}

func TestScreenString(t *testing.T) {
	assert.Equal(t, "start", ScreenStart.String())
	assert.Equal(t, "playing", ScreenPlaying.String())
	assert.Equal(t, "completed", ScreenCompleted.String())
}
