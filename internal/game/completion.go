package game

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/alipala/ai-fantasy-rpg/internal/api"
	"github.com/alipala/ai-fantasy-rpg/pkg/session"
)

// ErrAlreadyCompleted guards the one-shot completion sequence.
var ErrAlreadyCompleted = errors.New("completion flow already ran")

// Completion runs the one-shot end-of-story sequence: request the
// completion asset, build the share link, and offer replay. Asset
// failures degrade to a text-only view; nothing here may block replay.
type Completion struct {
	state     *session.State
	gw        Gateway
	logger    *slog.Logger
	shareBase string
	fired     bool

	// Injection points for tests.
	copyText  func(string) error
	writeFile func(name string, data []byte) error
	reload    func()
	now       func() time.Time
}

func NewCompletion(state *session.State, gw Gateway, logger *slog.Logger, shareBase string, reload func()) *Completion {
	return &Completion{
		state:     state,
		gw:        gw,
		logger:    logger,
		shareBase: shareBase,
		copyText:  clipboard.WriteAll,
		writeFile: func(name string, data []byte) error { return os.WriteFile(name, data, 0o644) },
		reload:    reload,
		now:       time.Now,
	}
}

// View is what the completion screen renders.
type View struct {
	WorldName     string
	CharacterName string
	Summary       string
	Image         *api.Image
	Achievements  []string
}

// SharePayload is the client-only encoding behind a share link. Nothing
// is persisted server-side.
type SharePayload struct {
	World           string   `json:"world"`
	Character       string   `json:"character"`
	CompletionImage string   `json:"completionImage,omitempty"`
	Achievements    []string `json:"achievements"`
	Timestamp       int64    `json:"timestamp"`
}

// Run executes the completion sequence exactly once per session. The
// winning turn supplies the summary and, when present, the world and
// character names; the session fills any gaps.
func (c *Completion) Run(ctx context.Context, turn *TurnResult) (*View, error) {
	if c.fired {
		return nil, ErrAlreadyCompleted
	}
	c.fired = true
	c.state.Complete()

	view := &View{Summary: turn.Response}
	if turn.World != nil {
		view.WorldName = turn.World.Name
	} else if c.state.World != nil {
		view.WorldName = c.state.World.Name
	}
	if turn.Character != nil {
		view.CharacterName = turn.Character.Name
	} else if c.state.Character != nil {
		view.CharacterName = c.state.Character.Name
	}

	resp, err := c.gw.GenerateCompletion(ctx)
	if err != nil || !resp.Success || resp.CompletionImage == nil {
		c.logger.Warn("completion asset unavailable, showing text-only view", "error", err)
		return view, nil
	}

	view.Image = resp.CompletionImage
	view.Achievements = resp.CompletionImage.Context.Achievements
	return view, nil
}

// ShareLink encodes the victory as a base64 JSON payload under the
// share base URL.
func (c *Completion) ShareLink(view *View) string {
	payload := SharePayload{
		World:        view.WorldName,
		Character:    view.CharacterName,
		Achievements: view.Achievements,
		Timestamp:    c.now().UnixMilli(),
	}
	if view.Image != nil {
		payload.CompletionImage = view.Image.URL
	}
	data, err := json.Marshal(payload)
	if err != nil {
		// Payload is plain strings and ints; this cannot happen.
		c.logger.Error("failed to encode share payload", "error", err)
		return c.shareBase + "/victory"
	}
	return c.shareBase + "/victory/" + base64.URLEncoding.EncodeToString(data)
}

// CopyShareLink puts the share link on the clipboard.
func (c *Completion) CopyShareLink(view *View) error {
	return c.copyText(c.ShareLink(view))
}

// DownloadImage saves the completion image through the backend's image
// proxy and returns the local filename.
func (c *Completion) DownloadImage(ctx context.Context, view *View) (string, error) {
	if view.Image == nil {
		return "", errors.New("no completion image to download")
	}
	data, err := c.gw.DownloadImage(ctx, view.Image.URL)
	if err != nil {
		return "", fmt.Errorf("failed to download completion image: %w", err)
	}

	name := fmt.Sprintf("victory-in-%s.png", strings.ToLower(strings.ReplaceAll(view.WorldName, " ", "-")))
	if err := c.writeFile(name, data); err != nil {
		return "", fmt.Errorf("failed to save completion image: %w", err)
	}
	return name, nil
}

// Replay restarts the session via the injected reload hook.
func (c *Completion) Replay() {
	c.logger.Info("replay requested", "session", c.state.ID)
	c.reload()
}
