package game

import (
	"context"

	"github.com/alipala/ai-fantasy-rpg/internal/api"
	"github.com/alipala/ai-fantasy-rpg/pkg/session"
	"github.com/alipala/ai-fantasy-rpg/pkg/world"
)

// Gateway is the backend contract the controllers depend on.
// internal/api.Client is the production implementation.
type Gateway interface {
	Worlds(ctx context.Context) (*world.Catalog, error)
	CheckPuzzle(ctx context.Context, character string) (bool, error)
	LoadInventory(ctx context.Context, character string) (session.Inventory, error)
	StartGame(ctx context.Context, req api.StartGameRequest) (*api.StartGameResponse, error)
	SubmitAction(ctx context.Context, action string) (*api.ActionResponse, error)
	GenerateExamples(ctx context.Context, req api.ExamplesRequest) ([]string, error)
	GenerateCompletion(ctx context.Context) (*api.CompletionResponse, error)
	DownloadImage(ctx context.Context, imageURL string) ([]byte, error)
}
