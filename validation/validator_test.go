package validation

import (
	"testing"

	"ormd/diagram"
	"ormd/geometry"
)

func testDesign(t *testing.T) *diagram.Design {
	t.Helper()
	d := diagram.NewDesign("v", geometry.R(0, 0, 600, 400))
	for _, tbl := range []*diagram.Table{
		{ID: "a", Bounds: geometry.R(0, 0, 100, 50)},
		{ID: "b", Bounds: geometry.R(200, 0, 100, 50)},
		{ID: "c", Bounds: geometry.R(120, 100, 40, 40)},
	} {
		if err := d.AddTable(tbl); err != nil {
			t.Fatalf("AddTable: %v", err)
		}
	}
	return d
}

func TestValidator_Lines(t *testing.T) {
	tests := []struct {
		name   string
		source string
		target string
		points []geometry.Point
		want   []IssueKind
	}{
		{
			name: "clean straight line", source: "a", target: "b",
			points: []geometry.Point{geometry.Pt(100, 25), geometry.Pt(200, 25)},
		},
		{
			name: "unrouted", source: "a", target: "b",
			want: []IssueKind{Unrouted},
		},
		{
			name: "unresolved", source: "a", target: "zzz",
			want: []IssueKind{Unresolved},
		},
		{
			name: "diagonal", source: "a", target: "b",
			points: []geometry.Point{geometry.Pt(100, 25), geometry.Pt(200, 30)},
			want:   []IssueKind{NotOrthogonal},
		},
		{
			name: "detached start", source: "a", target: "b",
			points: []geometry.Point{geometry.Pt(110, 25), geometry.Pt(200, 25)},
			want:   []IssueKind{DetachedEndpoint},
		},
		{
			name: "through another table", source: "a", target: "b",
			points: []geometry.Point{geometry.Pt(50, 50), geometry.Pt(50, 120), geometry.Pt(250, 120), geometry.Pt(250, 50)},
			want:   []IssueKind{CrossesTable},
		},
		{
			name: "through its own source", source: "a", target: "b",
			points: []geometry.Point{geometry.Pt(0, 25), geometry.Pt(200, 25)},
			want:   []IssueKind{CrossesTable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDesign(t)
			d.AddReference(&diagram.Reference{ID: "fk", Source: tt.source, Target: tt.target, Points: tt.points})

			issues := NewValidator().Validate(d)
			if len(issues) != len(tt.want) {
				t.Fatalf("Expected %d issues, got %v", len(tt.want), issues)
			}
			for i, kind := range tt.want {
				if issues[i].Kind != kind {
					t.Errorf("Issue %d: expected %s, got %s", i, kind, issues[i].Kind)
				}
				if issues[i].ElementID != "fk" {
					t.Errorf("Issue %d: expected element fk, got %s", i, issues[i].ElementID)
				}
			}
		})
	}
}

func TestValidator_Overlaps(t *testing.T) {
	d := testDesign(t)
	d.AddTable(&diagram.Table{ID: "d", Bounds: geometry.R(250, 25, 100, 50)})
	d.AddTable(&diagram.Table{ID: "e", Bounds: geometry.R(300, 0, 10, 10)})

	issues := NewValidator().Validate(d)
	if len(issues) != 1 {
		t.Fatalf("Expected 1 issue, got %v", issues)
	}
	if issues[0].Kind != TablesOverlap || issues[0].ElementID != "b" {
		t.Errorf("Expected b to overlap d, got %v", issues[0])
	}
}

func TestOverlapArea(t *testing.T) {
	tests := []struct {
		name string
		a, b geometry.Rect
		want float64
	}{
		{"disjoint", geometry.R(0, 0, 10, 10), geometry.R(20, 0, 10, 10), 0},
		{"touching", geometry.R(0, 0, 10, 10), geometry.R(10, 0, 10, 10), 0},
		{"partial", geometry.R(0, 0, 10, 10), geometry.R(5, 5, 10, 10), 25},
		{"contained", geometry.R(0, 0, 100, 100), geometry.R(10, 10, 20, 30), 600},
		{"negative size", geometry.R(10, 10, -10, -10), geometry.R(5, 0, 10, 10), 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OverlapArea(tt.a, tt.b)
			if !geometry.Equal(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
