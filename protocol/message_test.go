package protocol

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/sourcepick/dom"
)

func TestDecode(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		expect      Kind
		malformed   bool
	}{
		{description: "enable", input: `{"type":"ENABLE_SOURCE_SELECTOR"}`, expect: KindEnable},
		{description: "disable", input: `{"type":"DISABLE_SOURCE_SELECTOR"}`, expect: KindDisable},
		{description: "selected", input: `{"type":"SOURCE_SELECTED","data":{"component":"Card","file":"a.tsx","line":"3","element":"<div>"}}`, expect: KindSelected},
		{description: "selected without data", input: `{"type":"SOURCE_SELECTED"}`, malformed: true},
		{description: "unknown type", input: `{"type":"HELLO"}`, malformed: true},
		{description: "not json", input: `ENABLE_SOURCE_SELECTOR`, malformed: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			message, err := Decode([]byte(testCase.input))
			if testCase.malformed {
				assert.ErrorIs(t, err, ErrMalformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expect, message.Kind())
		})
	}
}

func TestEncode(t *testing.T) {
	data, err := Encode(Selected(&SelectionPayload{Component: "Card", File: "a.tsx", Line: "3", Element: "<div>"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"SOURCE_SELECTED","data":{"component":"Card","file":"a.tsx","line":"3","element":"<div>"}}`, string(data))

	data, err = Encode(Enable())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"ENABLE_SOURCE_SELECTOR"}`, string(data))
}

type frame struct {
	posts [][]byte
	err   error
	panic bool
}

func (f *frame) PostMessage(data []byte, targetOrigin string) error {
	if f.panic {
		panic("detached")
	}
	f.posts = append(f.posts, data)
	return f.err
}

type window struct {
	*frame
	parent dom.Frame
}

func (w *window) Document() dom.Document { return nil }
func (w *window) Parent() dom.Frame { return w.parent }
func (w *window) Flag(string) bool { return false }
func (w *window) SetFlag(string) {}
func (w *window) OnMessage(func(data []byte)) {}
func (w *window) WhenReady(fn func()) { fn() }

func TestPost(t *testing.T) {
	payload := &SelectionPayload{Component: "Card", File: "a.tsx", Line: "3", Element: "<div>"}

	t.Run("no parent", func(t *testing.T) {
		win := &window{frame: &frame{}}
		assert.ErrorIs(t, Post(win, payload, nil), ErrNoParent)
	})

	t.Run("parent is self", func(t *testing.T) {
		win := &window{frame: &frame{}}
		win.parent = win
		assert.ErrorIs(t, Post(win, payload, nil), ErrNoParent)
		assert.Empty(t, win.posts)
	})

	t.Run("delivered", func(t *testing.T) {
		parent := &frame{}
		win := &window{frame: &frame{}, parent: parent}
		require.NoError(t, Post(win, payload, nil))
		require.Len(t, parent.posts, 1)
		message, err := Decode(parent.posts[0])
		require.NoError(t, err)
		assert.Equal(t, payload, message.Data)
	})

	t.Run("failures are logged", func(t *testing.T) {
		for _, parent := range []*frame{{err: errors.New("closed")}, {panic: true}} {
			buffer := &bytes.Buffer{}
			logger := slog.New(slog.NewTextHandler(buffer, nil))
			win := &window{frame: &frame{}, parent: parent}
			assert.Error(t, Post(win, payload, logger))
			assert.Contains(t, buffer.String(), "failed to post message")
		}
	})
}
