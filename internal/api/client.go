package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/alipala/ai-fantasy-rpg/pkg/session"
	"github.com/alipala/ai-fantasy-rpg/pkg/world"
)

// Client talks to the narrative backend. All calls are fallible over
// the network; failures are classified per the package error types.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

func NewClient(httpClient *http.Client, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// do issues a request and returns the response body. Non-2xx statuses
// decode the backend's error shape when possible.
func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errorResp ErrorResponse
		if err := json.Unmarshal(data, &errorResp); err != nil || errorResp.Error == "" {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(data))
		}
		return nil, &LogicalError{Message: errorResp.Error}
	}

	return data, nil
}

// Worlds fetches the world catalog from /world-info. An answer without
// worlds surfaces as world.ErrEmptyCatalog, not a crash.
func (c *Client) Worlds(ctx context.Context) (*world.Catalog, error) {
	data, err := c.do(ctx, http.MethodGet, "/world-info", nil)
	if err != nil {
		return nil, err
	}
	catalog, err := world.DecodeCatalog(data)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("fetched world catalog", "worlds", len(catalog.Worlds))
	return catalog, nil
}

// CheckPuzzle reports whether the character has an available quest.
// Callers treat an error as "no quest" (fail closed).
func (c *Client) CheckPuzzle(ctx context.Context, character string) (bool, error) {
	data, err := c.do(ctx, http.MethodPost, "/check-puzzle", CheckPuzzleRequest{Character: character})
	if err != nil {
		return false, err
	}
	var resp CheckPuzzleResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return false, fmt.Errorf("failed to parse puzzle check response: %w", err)
	}
	return resp.HasPuzzle, nil
}

// LoadInventory fetches the character's starting inventory. An absent
// inventory field is ErrMissingInventory, not an empty inventory.
func (c *Client) LoadInventory(ctx context.Context, character string) (session.Inventory, error) {
	data, err := c.do(ctx, http.MethodPost, "/load-inventory", LoadInventoryRequest{Character: character})
	if err != nil {
		return nil, err
	}
	var resp LoadInventoryResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse inventory response: %w", err)
	}
	if resp.Inventory == nil {
		return nil, ErrMissingInventory
	}
	return resp.Inventory, nil
}

// StartGame begins the narrative session. An error field in a 200 body
// is a logical failure and short-circuits startup.
func (c *Client) StartGame(ctx context.Context, req StartGameRequest) (*StartGameResponse, error) {
	data, err := c.do(ctx, http.MethodPost, "/start-game", req)
	if err != nil {
		return nil, err
	}
	var resp StartGameResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse start game response: %w", err)
	}
	if resp.Error != "" {
		return nil, &LogicalError{Message: resp.Error}
	}
	return &resp, nil
}

// SubmitAction sends one player action. On a logical error the caller
// must not mutate history or inventory. An absent inventory field is a
// contract violation, never an empty inventory.
func (c *Client) SubmitAction(ctx context.Context, action string) (*ActionResponse, error) {
	data, err := c.do(ctx, http.MethodPost, "/action", ActionRequest{Action: action})
	if err != nil {
		return nil, err
	}
	var resp ActionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse action response: %w", err)
	}
	if resp.Error != "" {
		return nil, &LogicalError{Message: resp.Error}
	}
	if resp.Inventory == nil {
		return nil, ErrMissingInventory
	}
	return &resp, nil
}

// GenerateExamples asks for fresh action suggestions. Purely advisory;
// callers substitute a fixed fallback on any failure.
func (c *Client) GenerateExamples(ctx context.Context, req ExamplesRequest) ([]string, error) {
	data, err := c.do(ctx, http.MethodPost, "/generate-examples", req)
	if err != nil {
		return nil, err
	}
	var resp ExamplesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse examples response: %w", err)
	}
	if len(resp.Examples) == 0 {
		return nil, &MalformedResponseError{Key: "examples"}
	}
	return resp.Examples, nil
}

// GenerateCompletion requests the one-shot completion asset.
func (c *Client) GenerateCompletion(ctx context.Context) (*CompletionResponse, error) {
	data, err := c.do(ctx, http.MethodPost, "/generate-completion", nil)
	if err != nil {
		return nil, err
	}
	var resp CompletionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse completion response: %w", err)
	}
	return &resp, nil
}

// DownloadImage fetches image bytes through the backend's proxy route,
// which exists to work around cross-origin download restrictions.
func (c *Client) DownloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/proxy-image/"+url.PathEscape(imageURL), nil)
}
