package obstacles

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"

	"ormd/geometry"
)

// minExtent keeps degenerate rectangles indexable; rtreego rejects zero lengths.
const minExtent = 1e-6

type item struct {
	Entry
	seq    int
	bounds rtreego.Rect
}

func (i *item) Bounds() rtreego.Rect {
	return i.bounds
}

// Index is an R-tree of obstacle rectangles with segment-level collision tests.
// It is not safe for concurrent modification.
type Index struct {
	config Config
	tree   *rtreego.Rtree
	items  []*item
}

// NewIndex creates an index holding the given entries with DefaultConfig.
func NewIndex(entries ...Entry) *Index {
	return NewIndexWithConfig(DefaultConfig(), entries...)
}

// NewIndexWithConfig creates an index with an explicit configuration.
func NewIndexWithConfig(config Config, entries ...Entry) *Index {
	if config.MinChildren <= 0 || config.MaxChildren < config.MinChildren {
		d := DefaultConfig()
		config.MinChildren, config.MaxChildren = d.MinChildren, d.MaxChildren
	}
	ix := &Index{
		config: config,
		tree:   rtreego.NewTree(2, config.MinChildren, config.MaxChildren),
	}
	for _, e := range entries {
		ix.Insert(e.ID, e.Rect)
	}
	return ix
}

// Insert adds an obstacle. Rectangles are normalized first.
func (ix *Index) Insert(id string, rect geometry.Rect) {
	rect = geometry.NormalizeRect(rect)
	it := &item{
		Entry:  Entry{ID: id, Rect: rect},
		seq:    len(ix.items),
		bounds: toBounds(geometry.InflateRect(rect, 2*ix.config.Padding, 2*ix.config.Padding)),
	}
	ix.items = append(ix.items, it)
	ix.tree.Insert(it)
}

// Len returns the number of indexed obstacles.
func (ix *Index) Len() int {
	return len(ix.items)
}

// Rects returns the obstacle rectangles in insertion order, leaving out any
// rectangle equal to one of exclude.
func (ix *Index) Rects(exclude ...geometry.Rect) []geometry.Rect {
	var out []geometry.Rect
	for _, it := range ix.items {
		if !excluded(it.Rect, exclude) {
			out = append(out, it.Rect)
		}
	}
	return out
}

// Query returns the obstacles whose padded rectangle touches area, in
// insertion order.
func (ix *Index) Query(area geometry.Rect) []Entry {
	var out []Entry
	for _, it := range ix.search(geometry.NormalizeRect(area)) {
		out = append(out, it.Entry)
	}
	return out
}

// Collides reports whether the polyline touches any obstacle other than the
// excluded rectangles.
func (ix *Index) Collides(points []geometry.Point, exclude ...geometry.Rect) bool {
	return len(ix.Colliding(points, exclude...)) > 0
}

// Colliding returns the obstacles touched by the polyline, in insertion order.
func (ix *Index) Colliding(points []geometry.Point, exclude ...geometry.Rect) []Entry {
	if len(points) == 0 {
		return nil
	}
	if len(points) == 1 {
		points = []geometry.Point{points[0], points[0]}
	}

	hit := map[int]bool{}
	var out []*item
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		for _, it := range ix.search(geometry.RectFromPoints(a, b)) {
			if hit[it.seq] || excluded(it.Rect, exclude) {
				continue
			}
			if geometry.LineIntersectsRect(ix.padded(it.Rect), a, b) {
				hit[it.seq] = true
				out = append(out, it)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	entries := make([]Entry, len(out))
	for i, it := range out {
		entries[i] = it.Entry
	}
	return entries
}

// search runs the R-tree broad phase and then the exact closed-rectangle test.
func (ix *Index) search(area geometry.Rect) []*item {
	if len(ix.items) == 0 {
		return nil
	}
	// rtreego treats touching rectangles as disjoint, so query a slightly
	// larger box and filter exactly afterwards.
	probe := geometry.InflateRect(area, 2*minExtent, 2*minExtent)
	found := ix.tree.SearchIntersect(toBounds(probe))

	var out []*item
	for _, s := range found {
		it := s.(*item)
		if ix.padded(it.Rect).Intersects(area) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func (ix *Index) padded(r geometry.Rect) geometry.Rect {
	if ix.config.Padding == 0 {
		return r
	}
	return geometry.InflateRect(r, 2*ix.config.Padding, 2*ix.config.Padding)
}

func toBounds(r geometry.Rect) rtreego.Rect {
	bounds, err := rtreego.NewRect(
		rtreego.Point{r.Left, r.Top},
		[]float64{math.Max(r.Width, minExtent), math.Max(r.Height, minExtent)},
	)
	if err != nil {
		// Unreachable: both lengths are positive.
		panic(err)
	}
	return bounds
}

func excluded(r geometry.Rect, exclude []geometry.Rect) bool {
	for _, e := range exclude {
		if geometry.NormalizeRect(e).Eq(r) {
			return true
		}
	}
	return false
}
