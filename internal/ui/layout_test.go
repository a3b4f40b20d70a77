package ui

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"

	"github.com/oakwood-commons/textcomplete/internal/completer"
	"github.com/oakwood-commons/textcomplete/internal/dropdown"
)

func TestLayoutArrange(t *testing.T) {
	lm := NewLayoutManager(80, 24)
	mk := func(cfg FieldConfig) *Field {
		return newField(cfg, lm.NewPanel(cfg), completer.New(cfg.ID, nil, logr.Discard()), logr.Discard())
	}
	to := mk(FieldConfig{ID: "to", Label: "To"})
	cc := mk(FieldConfig{ID: "cc", Panel: "relative"})
	msg := mk(FieldConfig{ID: "message", Label: "Message", Panel: "fixed"})
	note := mk(FieldConfig{ID: "note", Panel: "FIXED"})

	lm.Arrange([]*Field{to, cc, msg, note})

	assert.Equal(t, 2, to.panel.Y)
	assert.Equal(t, 4, cc.panel.Y)
	assert.Equal(t, dropdown.PositionRelative, cc.panel.Mode)
	assert.Equal(t, 21, note.panel.Y, "the last fixed field sits above the status line")
	assert.Equal(t, 19, msg.panel.Y)
	assert.Equal(t, dropdown.PositionFixed, msg.panel.Mode)

	assert.Equal(t, len("To: "), to.box.X)
	assert.Equal(t, 80-len("To: "), to.box.W)
	assert.Equal(t, to.panel.Y, to.box.Y)
	assert.Same(t, lm.Root(), to.panel.Parent())
}

func TestLayoutDefaults(t *testing.T) {
	lm := NewLayoutManager(0, -1)
	assert.Equal(t, DefaultWidth, lm.Width())
	assert.Equal(t, DefaultHeight, lm.Height())
	assert.Equal(t, DefaultHeight, lm.Root().Height())

	lm.SetDimensions(120, 40)
	assert.Equal(t, 120, lm.Root().W)
}

func TestPanelMode(t *testing.T) {
	assert.Equal(t, dropdown.PositionStatic, panelMode(""))
	assert.Equal(t, dropdown.PositionStatic, panelMode("sticky"))
	assert.Equal(t, dropdown.PositionAbsolute, panelMode(" absolute "))
}
