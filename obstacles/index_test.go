package obstacles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ormd/geometry"
)

func testIndex() *Index {
	return NewIndex(
		Entry{ID: "a", Rect: geometry.R(150, 0, 50, 50)},
		Entry{ID: "b", Rect: geometry.R(0, 200, 100, 50)},
		Entry{ID: "c", Rect: geometry.R(400, 400, -50, -50)},
	)
}

func TestIndex_Query(t *testing.T) {
	ix := testIndex()
	require.Equal(t, 3, ix.Len())

	tests := []struct {
		name string
		area geometry.Rect
		want []string
	}{
		{"everything", geometry.R(-1000, -1000, 2000, 2000), []string{"a", "b", "c"}},
		{"nothing", geometry.R(500, 0, 10, 10), nil},
		{"touching edge", geometry.R(200, 10, 10, 10), []string{"a"}},
		{"normalized entry", geometry.R(360, 360, 5, 5), []string{"c"}},
		{"zero area", geometry.R(50, 225, 0, 0), []string{"b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, e := range ix.Query(tt.area) {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestIndex_Collides(t *testing.T) {
	ix := testIndex()

	tests := []struct {
		name    string
		points  []geometry.Point
		exclude []geometry.Rect
		want    bool
	}{
		{
			name:   "straight through a",
			points: []geometry.Point{geometry.Pt(100, 25), geometry.Pt(300, 25)},
			want:   true,
		},
		{
			name:   "over the top",
			points: []geometry.Point{geometry.Pt(50, 0), geometry.Pt(50, -20), geometry.Pt(250, -20), geometry.Pt(250, 0)},
			want:   false,
		},
		{
			name:   "along an edge",
			points: []geometry.Point{geometry.Pt(150, -10), geometry.Pt(150, 10)},
			want:   true,
		},
		{
			name:    "excluded",
			points:  []geometry.Point{geometry.Pt(100, 25), geometry.Pt(300, 25)},
			exclude: []geometry.Rect{geometry.R(150, 0, 50, 50)},
			want:    false,
		},
		{
			name:   "single point inside",
			points: []geometry.Point{geometry.Pt(50, 225)},
			want:   true,
		},
		{
			name: "empty",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ix.Collides(tt.points, tt.exclude...))
		})
	}
}

func TestIndex_Colliding(t *testing.T) {
	ix := testIndex()
	points := []geometry.Point{geometry.Pt(50, 300), geometry.Pt(50, 25), geometry.Pt(375, 25), geometry.Pt(375, 375)}

	var ids []string
	for _, e := range ix.Colliding(points) {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestIndex_Padding(t *testing.T) {
	config := DefaultConfig()
	config.Padding = 10
	ix := NewIndexWithConfig(config, Entry{ID: "a", Rect: geometry.R(150, 0, 50, 50)})

	near := []geometry.Point{geometry.Pt(100, -5), geometry.Pt(300, -5)}
	assert.True(t, ix.Collides(near), "line within the padding should collide")
	assert.False(t, NewIndex(Entry{ID: "a", Rect: geometry.R(150, 0, 50, 50)}).Collides(near))

	far := []geometry.Point{geometry.Pt(100, -15), geometry.Pt(300, -15)}
	assert.False(t, ix.Collides(far))
}

func TestIndex_Rects(t *testing.T) {
	ix := testIndex()

	rects := ix.Rects(geometry.R(150, 0, 50, 50))
	require.Len(t, rects, 2)
	assert.Equal(t, geometry.R(0, 200, 100, 50), rects[0])
	assert.Equal(t, geometry.R(350, 350, 50, 50), rects[1])
}

func TestIndex_Empty(t *testing.T) {
	ix := NewIndex()
	assert.Equal(t, 0, ix.Len())
	assert.Empty(t, ix.Query(geometry.R(0, 0, 100, 100)))
	assert.False(t, ix.Collides([]geometry.Point{geometry.Pt(0, 0), geometry.Pt(100, 0)}))
}
