package session

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/alipala/ai-fantasy-rpg/pkg/quest"
	"github.com/alipala/ai-fantasy-rpg/pkg/world"
)

// Screen identifies the active view. Exactly one screen is active at a
// time; rendering is a function of this value.
type Screen int

const (
	ScreenStart Screen = iota
	ScreenWorldSelect
	ScreenKingdomSelect
	ScreenTownSelect
	ScreenCharacterSelect
	ScreenPlaying
	ScreenCompleted
)

func (s Screen) String() string {
	switch s {
	case ScreenStart:
		return "start"
	case ScreenWorldSelect:
		return "world_select"
	case ScreenKingdomSelect:
		return "kingdom_select"
	case ScreenTownSelect:
		return "town_select"
	case ScreenCharacterSelect:
		return "character_select"
	case ScreenPlaying:
		return "playing"
	case ScreenCompleted:
		return "completed"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

// HistoryLimit caps the turn history. Older turns are evicted first.
// The history only provides context for example generation; it is not
// authoritative for anything.
const HistoryLimit = 10

// Turn is one action/response pair in the bounded history.
type Turn struct {
	Action   string `json:"action"`
	Response string `json:"response"`
}

// Inventory maps item name to count. The server is authoritative;
// the client replaces the map wholesale and never computes deltas.
type Inventory map[string]int

// State is the single source of truth for a game session. It is created
// fresh at startup, mutated only by the controllers, and discarded when
// the program exits. There is no cross-session persistence.
type State struct {
	ID        uuid.UUID
	Screen    Screen
	World     *world.World
	Kingdom   *world.Kingdom
	Town      *world.Town
	Character *world.Character
	Inventory Inventory
	History   []Turn
	Examples  []string
	Progress  *quest.Progress
}

// New returns a fresh session at the start screen.
func New() *State {
	return &State{
		ID:        uuid.New(),
		Screen:    ScreenStart,
		Inventory: make(Inventory),
		History:   make([]Turn, 0, HistoryLimit),
	}
}

// Begin leaves the landing screen for world selection.
func (s *State) Begin() {
	if s.Screen == ScreenStart {
		s.Screen = ScreenWorldSelect
	}
}

// SelectWorld sets the world, clears every deeper selection, and
// advances to kingdom selection.
func (s *State) SelectWorld(w world.World) {
	s.World = &w
	s.Kingdom = nil
	s.Town = nil
	s.Character = nil
	s.Screen = ScreenKingdomSelect
}

// SelectKingdom requires a world. It clears town and character and
// advances to town selection.
func (s *State) SelectKingdom(k world.Kingdom) error {
	if s.World == nil {
		return fmt.Errorf("cannot select kingdom before world")
	}
	s.Kingdom = &k
	s.Town = nil
	s.Character = nil
	s.Screen = ScreenTownSelect
	return nil
}

// SelectTown requires a kingdom. It clears the character and advances
// to character selection.
func (s *State) SelectTown(t world.Town) error {
	if s.Kingdom == nil {
		return fmt.Errorf("cannot select town before kingdom")
	}
	s.Town = &t
	s.Character = nil
	s.Screen = ScreenCharacterSelect
	return nil
}

// SelectCharacter requires a town and advances to the playing screen.
func (s *State) SelectCharacter(c world.Character) error {
	if s.Town == nil {
		return fmt.Errorf("cannot select character before town")
	}
	s.Character = &c
	s.Screen = ScreenPlaying
	return nil
}

// GoBack is the deterministic inverse of the forward chain. It clears
// the selection belonging to the screen being left. At world selection
// it is a no-op, and the playing screen is never reachable via back.
func (s *State) GoBack() {
	switch s.Screen {
	case ScreenKingdomSelect:
		s.Kingdom = nil
		s.Screen = ScreenWorldSelect
	case ScreenTownSelect:
		s.Town = nil
		s.Screen = ScreenKingdomSelect
	case ScreenCharacterSelect:
		s.Character = nil
		s.Screen = ScreenTownSelect
	}
}

// ResetHistory drops all recorded turns, keeping the backing capacity.
// Used when a fresh narrative begins in an existing session.
func (s *State) ResetHistory() {
	s.History = s.History[:0]
}

// RecordTurn appends to history and evicts the oldest entries past
// HistoryLimit.
func (s *State) RecordTurn(action, response string) {
	s.History = append(s.History, Turn{Action: action, Response: response})
	if n := len(s.History) - HistoryLimit; n > 0 {
		s.History = s.History[n:]
	}
}

// SetInventory replaces the inventory wholesale. A nil snapshot clears it.
func (s *State) SetInventory(snapshot Inventory) {
	if snapshot == nil {
		s.Inventory = make(Inventory)
		return
	}
	s.Inventory = snapshot
}

// SetExamples replaces the advisory action suggestions.
func (s *State) SetExamples(examples []string) {
	s.Examples = examples
}

// SetProgress replaces the quest progress indicator.
func (s *State) SetProgress(p *quest.Progress) {
	s.Progress = p
}

// Complete marks the story finished. Completion is terminal; the only
// way out is a full session restart.
func (s *State) Complete() {
	s.Screen = ScreenCompleted
}

// VisibleInventory returns item names with a positive count, sorted.
// Zero-count entries stay in the map but are hidden from rendering.
func (s *State) VisibleInventory() []string {
	names := make([]string, 0, len(s.Inventory))
	for name, count := range s.Inventory {
		if count > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
