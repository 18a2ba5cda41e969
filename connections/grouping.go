package connections

import (
	"sort"

	"ormd/core"
	"ormd/geometry"
)

type entryKey struct {
	target string
	side   core.Direction
}

// groupByEntry groups requests by target table and preferred entry side,
// in order of first appearance.
func groupByEntry(reqs []*request) ([]entryKey, map[entryKey][]*request) {
	groups := map[entryKey][]*request{}
	var order []entryKey
	for _, req := range reqs {
		k := entryKey{req.targetID, req.entries[0]}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], req)
	}
	return order, groups
}

// distributeEntries pins the entry anchors of lines sharing a target side,
// ordered along the side by the position of their source so they do not cross.
func (r *DesignRouter) distributeEntries(reqs []*request) {
	order, groups := groupByEntry(reqs)
	for _, k := range order {
		group := groups[k]
		if len(group) < 2 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			return alongSide(group[i].source, k.side) < alongSide(group[j].source, k.side)
		})
		for i, req := range group {
			p := r.GetTargetEntryPoint(req.target, k.side, i, len(group))
			req.entries = []core.Direction{k.side}
			if k.side.IsHorizontal() {
				req.entry = geometry.OptionalPoint{Y: geometry.Some(p.Y)}
			} else {
				req.entry = geometry.OptionalPoint{X: geometry.Some(p.X)}
			}
		}
	}
}

// alongSide returns the coordinate of the centre of rect along a side of the
// given direction: Y for West and East, X for North and South.
func alongSide(rect geometry.Rect, side core.Direction) float64 {
	c := geometry.Center(geometry.NormalizeRect(rect))
	if side.IsHorizontal() {
		return c.Y
	}
	return c.X
}
