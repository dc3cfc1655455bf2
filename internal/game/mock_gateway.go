package game

import (
	"context"

	"github.com/alipala/ai-fantasy-rpg/internal/api"
	"github.com/alipala/ai-fantasy-rpg/pkg/session"
	"github.com/alipala/ai-fantasy-rpg/pkg/world"
)

// MockGateway is a test double for the backend. Behavior is overridden
// per test through the Func fields; calls are recorded for assertions.
type MockGateway struct {
	WorldsFunc             func(ctx context.Context) (*world.Catalog, error)
	CheckPuzzleFunc        func(ctx context.Context, character string) (bool, error)
	LoadInventoryFunc      func(ctx context.Context, character string) (session.Inventory, error)
	StartGameFunc          func(ctx context.Context, req api.StartGameRequest) (*api.StartGameResponse, error)
	SubmitActionFunc       func(ctx context.Context, action string) (*api.ActionResponse, error)
	GenerateExamplesFunc   func(ctx context.Context, req api.ExamplesRequest) ([]string, error)
	GenerateCompletionFunc func(ctx context.Context) (*api.CompletionResponse, error)
	DownloadImageFunc      func(ctx context.Context, imageURL string) ([]byte, error)

	// Recorded calls
	WorldsCalls             int
	CheckPuzzleCalls        []string
	LoadInventoryCalls      []string
	StartGameCalls          []api.StartGameRequest
	SubmitActionCalls       []string
	GenerateExamplesCalls   []api.ExamplesRequest
	GenerateCompletionCalls int
	DownloadImageCalls      []string
}

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) Worlds(ctx context.Context) (*world.Catalog, error) {
	m.WorldsCalls++
	if m.WorldsFunc != nil {
		return m.WorldsFunc(ctx)
	}
	return &world.Catalog{Worlds: map[string]world.World{}}, nil
}

func (m *MockGateway) CheckPuzzle(ctx context.Context, character string) (bool, error) {
	m.CheckPuzzleCalls = append(m.CheckPuzzleCalls, character)
	if m.CheckPuzzleFunc != nil {
		return m.CheckPuzzleFunc(ctx, character)
	}
	return true, nil
}

func (m *MockGateway) LoadInventory(ctx context.Context, character string) (session.Inventory, error) {
	m.LoadInventoryCalls = append(m.LoadInventoryCalls, character)
	if m.LoadInventoryFunc != nil {
		return m.LoadInventoryFunc(ctx, character)
	}
	return session.Inventory{}, nil
}

func (m *MockGateway) StartGame(ctx context.Context, req api.StartGameRequest) (*api.StartGameResponse, error) {
	m.StartGameCalls = append(m.StartGameCalls, req)
	if m.StartGameFunc != nil {
		return m.StartGameFunc(ctx, req)
	}
	return &api.StartGameResponse{Message: "Your story begins."}, nil
}

func (m *MockGateway) SubmitAction(ctx context.Context, action string) (*api.ActionResponse, error) {
	m.SubmitActionCalls = append(m.SubmitActionCalls, action)
	if m.SubmitActionFunc != nil {
		return m.SubmitActionFunc(ctx, action)
	}
	return &api.ActionResponse{Response: "Nothing happens.", Inventory: session.Inventory{}}, nil
}

func (m *MockGateway) GenerateExamples(ctx context.Context, req api.ExamplesRequest) ([]string, error) {
	m.GenerateExamplesCalls = append(m.GenerateExamplesCalls, req)
	if m.GenerateExamplesFunc != nil {
		return m.GenerateExamplesFunc(ctx, req)
	}
	return []string{"Look around"}, nil
}

func (m *MockGateway) GenerateCompletion(ctx context.Context) (*api.CompletionResponse, error) {
	m.GenerateCompletionCalls++
	if m.GenerateCompletionFunc != nil {
		return m.GenerateCompletionFunc(ctx)
	}
	return &api.CompletionResponse{Success: false}, nil
}

func (m *MockGateway) DownloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	m.DownloadImageCalls = append(m.DownloadImageCalls, imageURL)
	if m.DownloadImageFunc != nil {
		return m.DownloadImageFunc(ctx, imageURL)
	}
	return []byte("image"), nil
}
