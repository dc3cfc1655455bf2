package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alipala/ai-fantasy-rpg/pkg/session"
	"github.com/alipala/ai-fantasy-rpg/pkg/world"
)

// Navigation drives the screen state machine over the session store.
// Screen-entry fetches are not cancellable, so every screen change bumps
// an epoch; a fetch result started under an older epoch is stale and is
// discarded instead of rendered.
type Navigation struct {
	state   *session.State
	gw      Gateway
	logger  *slog.Logger
	epoch   uint64
	catalog *world.Catalog
}

func NewNavigation(state *session.State, gw Gateway, logger *slog.Logger) *Navigation {
	return &Navigation{
		state:  state,
		gw:     gw,
		logger: logger,
	}
}

// Epoch returns the current navigation epoch.
func (n *Navigation) Epoch() uint64 { return n.epoch }

// Stale reports whether a fetch token predates the active screen.
func (n *Navigation) Stale(token uint64) bool { return token != n.epoch }

// Begin leaves the landing screen for world selection. The returned
// token accompanies the world catalog fetch.
func (n *Navigation) Begin() uint64 {
	n.state.Begin()
	n.epoch++
	return n.epoch
}

// FetchWorlds retrieves the world catalog. Application of the result
// goes through ApplyCatalog so stale responses can be dropped.
func (n *Navigation) FetchWorlds(ctx context.Context) (*world.Catalog, error) {
	return n.gw.Worlds(ctx)
}

// ApplyCatalog installs a fetched catalog if its token is still
// current. Returns false when the response was stale and dropped.
func (n *Navigation) ApplyCatalog(token uint64, c *world.Catalog) bool {
	if n.Stale(token) {
		n.logger.Debug("discarding stale world catalog", "token", token, "epoch", n.epoch)
		return false
	}
	n.catalog = c
	return true
}

// Worlds returns the catalog's worlds for rendering, sorted by name.
func (n *Navigation) Worlds() []world.World {
	if n.catalog == nil {
		return nil
	}
	return n.catalog.SortedWorlds()
}

// SelectWorld commits the world choice and returns the kingdom options.
// Kingdom, town and character lists are nested in the fetched tree, so
// no additional fetch happens here.
func (n *Navigation) SelectWorld(w world.World) []world.Kingdom {
	n.state.SelectWorld(w)
	n.epoch++
	return w.SortedKingdoms()
}

// SelectKingdom commits the kingdom choice and returns the town options.
func (n *Navigation) SelectKingdom(k world.Kingdom) ([]world.Town, error) {
	if err := n.state.SelectKingdom(k); err != nil {
		return nil, err
	}
	n.epoch++
	return k.SortedTowns(), nil
}

// SelectTown commits the town choice. Character options require a quest
// check per character, so the caller fetches them asynchronously under
// the returned token.
func (n *Navigation) SelectTown(t world.Town) (uint64, error) {
	if err := n.state.SelectTown(t); err != nil {
		return 0, err
	}
	n.epoch++
	return n.epoch, nil
}

// FetchCharacters annotates the town's characters with quest
// availability. A failed check marks the character unavailable (fail
// closed) rather than failing the screen.
func (n *Navigation) FetchCharacters(ctx context.Context, t world.Town) []world.Character {
	chars := t.SortedCharacters()
	for i := range chars {
		hasPuzzle, err := n.gw.CheckPuzzle(ctx, chars[i].Name)
		if err != nil {
			n.logger.Warn("puzzle check failed, disabling character",
				"character", chars[i].Name, "error", err)
			hasPuzzle = false
		}
		chars[i].HasPuzzle = hasPuzzle
	}
	return chars
}

// SelectCharacter commits the character choice and enters the playing
// screen. Characters without an available quest are not selectable.
func (n *Navigation) SelectCharacter(c world.Character) error {
	if !c.HasPuzzle {
		return fmt.Errorf("%s has no available quests", c.Name)
	}
	if err := n.state.SelectCharacter(c); err != nil {
		return err
	}
	n.epoch++
	return nil
}

// Back navigates one screen up, clearing the selection being left. The
// returned token covers the re-fetch when the target screen needs one
// (the world list); other screens re-render from the tree already held.
func (n *Navigation) Back() uint64 {
	n.state.GoBack()
	n.epoch++
	return n.epoch
}
