package protocol

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/viant/sourcepick/dom"
)

// ErrNoParent is returned when the window is not embedded in a distinct parent frame
var ErrNoParent = errors.New("no parent frame")

// Post sends a selection to the immediate parent frame.
// Failures are logged and returned for the caller to discard; posts are never retried.
func Post(win dom.Window, payload *SelectionPayload, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	parent := win.Parent()
	if parent == nil || parent == dom.Frame(win) {
		return ErrNoParent
	}
	data, err := Encode(Selected(payload))
	if err != nil {
		logger.Warn("failed to post message", "type", TypeSelected, "error", err)
		return err
	}
	if err = post(parent, data); err != nil {
		logger.Warn("failed to post message", "type", TypeSelected, "error", err)
		return err
	}
	return nil
}

// post shields the caller from panicking frame implementations
func post(frame dom.Frame, data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("post message: %v", r)
		}
	}()
	return frame.PostMessage(data, TargetOrigin)
}
