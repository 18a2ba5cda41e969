package render

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ormd/diagram"
	"ormd/geometry"
)

func twoTables(t *testing.T) *diagram.Design {
	t.Helper()
	d := diagram.NewDesign("preview", geometry.R(0, 0, 400, 200))
	require.NoError(t, d.AddTable(&diagram.Table{ID: "a", Name: "a", Bounds: geometry.R(0, 0, 100, 40)}))
	require.NoError(t, d.AddTable(&diagram.Table{ID: "b", Name: "b", Bounds: geometry.R(200, 0, 100, 40)}))
	require.NoError(t, d.AddReference(&diagram.Reference{
		ID: "fk", Source: "a", Target: "b",
		Points: []geometry.Point{geometry.Pt(100, 20), geometry.Pt(200, 20)},
	}))
	return d
}

func TestPreview_Render(t *testing.T) {
	got := strings.Split(NewPreview().Render(twoTables(t)), "\n")
	want := []string{
		"┌─────────┐         ┌─────────┐",
		"│a        ├────────▶┤b        │",
		"└─────────┘         └─────────┘",
	}
	assert.Equal(t, want, got)
}

func TestPreview_EmptyDesign(t *testing.T) {
	d := diagram.NewDesign("empty", geometry.Rect{})
	assert.Nil(t, NewPreview().Draw(d))
	assert.Equal(t, "", NewPreview().Render(d))
}

func TestPreview_UnroutedLineSkipped(t *testing.T) {
	d := twoTables(t)
	d.SetLinePoints("fk", nil)

	got := strings.Split(NewPreview().Render(d), "\n")
	assert.Equal(t, "│a        │         │b        │", got[1])
}

func TestCanvas_Junctions(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		draw func(c *Canvas)
		want string
	}{
		{
			name: "corner",
			w:    4, h: 3,
			draw: func(c *Canvas) {
				c.DrawSegment(0, 0, 3, 0)
				c.DrawSegment(3, 0, 3, 2)
			},
			want: "───┐\n   │\n   │",
		},
		{
			name: "crossing",
			w:    5, h: 3,
			draw: func(c *Canvas) {
				c.DrawSegment(0, 1, 4, 1)
				c.DrawSegment(2, 0, 2, 2)
			},
			want: "  │  \n──┼──\n  │  ",
		},
		{
			name: "arrow survives later lines",
			w:    3, h: 1,
			draw: func(c *Canvas) {
				c.DrawArrow(1, 0, '▶')
				c.DrawSegment(0, 0, 2, 0)
				c.DrawText(1, 0, "x", 1)
			},
			want: "─▶─",
		},
		{
			name: "box",
			w:    3, h: 3,
			draw: func(c *Canvas) { c.DrawBox(0, 0, 3, 3) },
			want: "┌─┐\n│ │\n└─┘",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(tt.w, tt.h)
			require.NotNil(t, c)
			tt.draw(c)
			assert.Equal(t, tt.want, c.String())
		})
	}
}

func TestCanvas_OutOfBounds(t *testing.T) {
	assert.Nil(t, NewCanvas(0, 5))

	c := NewCanvas(2, 2)
	c.DrawSegment(-5, 0, 5, 0)
	assert.Equal(t, '─', c.Get(0, 0))
	assert.Equal(t, ' ', c.Get(10, 10))
}

func TestPreview_Show(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(40, 10)

	NewPreview().Show(screen, twoTables(t))

	cells, width, _ := screen.GetContents()
	at := func(x, y int) rune {
		c := cells[y*width+x]
		if len(c.Runes) == 0 {
			return ' '
		}
		return c.Runes[0]
	}
	assert.Equal(t, '┌', at(0, 0))
	assert.Equal(t, '▶', at(19, 1))
	assert.Equal(t, 'b', at(21, 1))
}

func TestPreview_RunStopsOnKey(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(40, 10)
	screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)

	d := twoTables(t)
	done := make(chan struct{})
	go func() {
		NewPreview().Run(screen, d)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after a key press")
	}
}
