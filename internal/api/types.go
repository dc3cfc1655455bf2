package api

import (
	"github.com/alipala/ai-fantasy-rpg/pkg/quest"
	"github.com/alipala/ai-fantasy-rpg/pkg/session"
	"github.com/alipala/ai-fantasy-rpg/pkg/world"
)

// ErrorResponse matches the backend's error body shape.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Location is the player's position as reported by /start-game.
type Location struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ImageContext describes the scene an illustrative image belongs to.
type ImageContext struct {
	World        string   `json:"world,omitempty"`
	Character    string   `json:"character,omitempty"`
	Location     string   `json:"location,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

// Image is an illustrative asset reference returned by the backend.
type Image struct {
	URL     string       `json:"url"`
	Context ImageContext `json:"context,omitempty"`
}

// CheckPuzzleRequest asks whether a character has an available quest.
type CheckPuzzleRequest struct {
	Character string `json:"character"`
}

// CheckPuzzleResponse is the /check-puzzle reply.
type CheckPuzzleResponse struct {
	HasPuzzle bool `json:"hasPuzzle"`
}

// LoadInventoryRequest fetches a character's starting inventory.
type LoadInventoryRequest struct {
	Character string `json:"character"`
}

// LoadInventoryResponse is the /load-inventory reply. A nil Inventory
// means the field was absent, which is a contract violation.
type LoadInventoryResponse struct {
	Inventory session.Inventory `json:"inventory"`
}

// StartGameRequest begins a session for the chosen character.
type StartGameRequest struct {
	Character string `json:"character"`
	World     string `json:"world"`
	Kingdom   string `json:"kingdom"`
}

// StartGameResponse is the /start-game reply.
type StartGameResponse struct {
	Location       Location        `json:"location"`
	InitialImage   *Image          `json:"initial_image,omitempty"`
	PuzzleProgress *quest.Progress `json:"puzzle_progress,omitempty"`
	Message        string          `json:"message"`
	Error          string          `json:"error,omitempty"`
}

// ActionRequest submits one free-text player action.
type ActionRequest struct {
	Action string `json:"action"`
}

// ActionResponse is the /action reply, the central round trip of the
// interaction loop. World and Character are only populated alongside
// puzzle_solved, for the completion view.
type ActionResponse struct {
	Response       string            `json:"response"`
	Inventory      session.Inventory `json:"inventory"`
	Image          *Image            `json:"image,omitempty"`
	PuzzleProgress *quest.Progress   `json:"puzzle_progress,omitempty"`
	PuzzleSolved   bool              `json:"puzzle_solved,omitempty"`
	ItemUsed       string            `json:"item_used,omitempty"`
	World          *world.World      `json:"world,omitempty"`
	Character      *world.Character  `json:"character,omitempty"`
	Error          string            `json:"error,omitempty"`
}

// ExamplesRequest asks for fresh action suggestions. History gives the
// generator conversational context and is already capped client-side.
type ExamplesRequest struct {
	Context   string            `json:"context"`
	Location  *world.Town       `json:"location"`
	Inventory session.Inventory `json:"inventory"`
	History   []session.Turn    `json:"history"`
}

// ExamplesResponse is the /generate-examples reply.
type ExamplesResponse struct {
	Examples []string `json:"examples"`
}

// CompletionResponse is the /generate-completion reply.
type CompletionResponse struct {
	Success         bool   `json:"success"`
	CompletionImage *Image `json:"completion_image,omitempty"`
}
