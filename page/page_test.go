package page

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/sourcepick/dom"
	"github.com/viant/sourcepick/picker"
)

const document = `<html><body>
<div id="card" style="position:absolute; left:10px; top:10px; width:200px; height:100px">
  <span id="label" style="left:20px; top:20px; width:50px; height:20px">Hi</span>
  <em id="ghost" style="left:100px; top:20px; width:50px; height:20px; pointer-events:none">x</em>
  <b id="hidden" style="left:150px; top:20px; width:50px; height:20px; visibility:hidden">y</b>
  <i id="gone" style="display:none; left:10px; top:70px; width:50px; height:20px">z</i>
</div>
<div id="top" style="left:180px; top:80px; width:50px; height:50px; z-index:5"></div>
</body></html>`

func TestPage_ElementFromPoint(t *testing.T) {
	doc, err := ParseString(document)
	require.NoError(t, err)
	var testCases = []struct {
		description string
		x, y        float64
		expect      string
	}{
		{description: "innermost box", x: 30, y: 30, expect: "label"},
		{description: "parent box", x: 15, y: 15, expect: "card"},
		{description: "pointer-events none falls through", x: 110, y: 30, expect: "card"},
		{description: "hidden falls through", x: 160, y: 30, expect: "card"},
		{description: "display none falls through", x: 20, y: 75, expect: "card"},
		{description: "z-index wins over order", x: 190, y: 90, expect: "top"},
		{description: "viewport", x: 600, y: 600, expect: "BODY"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			el := doc.ElementFromPoint(testCase.x, testCase.y)
			require.NotNil(t, el)
			if id, ok := el.Attribute("id"); ok {
				assert.Equal(t, testCase.expect, id)
				return
			}
			assert.Equal(t, testCase.expect, el.TagName())
		})
	}
	assert.Nil(t, doc.ElementFromPoint(-1, -1))
}

func TestPage_Dispatch(t *testing.T) {
	doc, err := ParseString(document)
	require.NoError(t, err)
	var trace []string
	record := func(name string, stop bool) dom.Listener {
		return func(event *dom.Event) {
			trace = append(trace, name)
			if stop {
				event.StopPropagation()
			}
		}
	}
	label := doc.ElementByID("label")
	card := doc.ElementByID("card")
	doc.Body().AddEventListener(dom.EventClick, record("body-capture", false), true)
	card.AddEventListener(dom.EventClick, record("card-bubble", false), false)
	label.AddEventListener(dom.EventClick, record("label-bubble", false), false)

	event := doc.Click(30, 30)
	assert.Equal(t, []string{"body-capture", "label-bubble", "card-bubble"}, trace)
	assert.Equal(t, dom.Element(label), event.Target)

	trace = nil
	doc.Body().AddEventListener(dom.EventClick, record("body-stop", true), true)
	doc.Click(30, 30)
	assert.Equal(t, []string{"body-capture", "body-stop"}, trace)
}

func TestPage_Overlay(t *testing.T) {
	doc, err := ParseString(document)
	require.NoError(t, err)
	overlay := doc.CreateOverlay(map[string]string{"position": "fixed", "inset": "0", "z-index": "100"})
	node := overlay.(*Node)
	assert.True(t, doc.Contains(node))
	assert.Equal(t, dom.Element(overlay), doc.ElementFromPoint(30, 30))

	overlay.SetStyle("pointer-events", "none")
	assert.Equal(t, "label", attr(doc.ElementFromPoint(30, 30), "id"))
	overlay.SetStyle("pointer-events", "")
	assert.Equal(t, "", overlay.Style("pointer-events"))

	id := overlay.On(dom.EventClick, func(event *dom.Event) {})
	assert.Equal(t, 1, node.ListenerCount())
	overlay.Off(id)
	assert.Equal(t, 0, node.ListenerCount())
	overlay.Remove()
	assert.False(t, doc.Contains(node))
}

func TestPage_WhenReady(t *testing.T) {
	doc, err := ParseString(document, WithLoading())
	require.NoError(t, err)
	ran := 0
	doc.WhenReady(func() { ran++ })
	assert.Equal(t, 0, ran)
	doc.Ready()
	assert.Equal(t, 1, ran)
	doc.WhenReady(func() { ran++ })
	assert.Equal(t, 2, ran)
}

func TestBoxRasterizer(t *testing.T) {
	doc, err := ParseString(document)
	require.NoError(t, err)
	image, err := NewBoxRasterizer().Rasterize(context.Background(), doc.ElementByID("label"), picker.RasterOptions{PixelRatio: 2})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(image, "data:image/png;base64,"))

	empty, err := ParseString(`<html><body><p id="p"></p></body></html>`)
	require.NoError(t, err)
	_, err = NewBoxRasterizer().Rasterize(context.Background(), empty.ElementByID("p"), picker.DefaultRasterOptions)
	assert.ErrorIs(t, err, ErrEmptyBox)
}

func attr(el dom.Element, name string) string {
	if el == nil {
		return ""
	}
	value, _ := el.Attribute(name)
	return value
}
