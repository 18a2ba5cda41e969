package geometry

import "testing"

func TestLineIntersection(t *testing.T) {
	tests := []struct {
		name           string
		p1, p2, p3, p4 Point
		want           Point
		wantNaN        bool
	}{
		{
			name: "perpendicular cross",
			p1:   Pt(0, 5), p2: Pt(10, 5),
			p3: Pt(5, 0), p4: Pt(5, 10),
			want: Pt(5, 5),
		},
		{
			name: "touching at endpoint",
			p1:   Pt(0, 0), p2: Pt(10, 0),
			p3: Pt(10, 0), p4: Pt(10, 10),
			want: Pt(10, 0),
		},
		{
			name: "parallel",
			p1:   Pt(0, 0), p2: Pt(10, 0),
			p3: Pt(0, 5), p4: Pt(10, 5),
			wantNaN: true,
		},
		{
			name: "collinear overlapping",
			p1:   Pt(0, 0), p2: Pt(10, 0),
			p3: Pt(5, 0), p4: Pt(15, 0),
			wantNaN: true,
		},
		{
			name: "identical",
			p1:   Pt(0, 0), p2: Pt(10, 0),
			p3: Pt(0, 0), p4: Pt(10, 0),
			wantNaN: true,
		},
		{
			name: "lines cross outside segments",
			p1:   Pt(0, 0), p2: Pt(4, 0),
			p3: Pt(5, -5), p4: Pt(5, 5),
			wantNaN: true,
		},
		{
			name: "diagonal",
			p1:   Pt(0, 0), p2: Pt(10, 10),
			p3: Pt(0, 10), p4: Pt(10, 0),
			want: Pt(5, 5),
		},
		{
			name: "degenerate segment",
			p1:   Pt(3, 3), p2: Pt(3, 3),
			p3: Pt(0, 3), p4: Pt(10, 3),
			wantNaN: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineIntersection(tt.p1, tt.p2, tt.p3, tt.p4)
			if tt.wantNaN {
				if !got.IsNaN() {
					t.Errorf("expected NaN point, got %v", got)
				}
				return
			}
			if !got.Eq(tt.want) {
				t.Errorf("LineIntersection = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLineIntersectsRect(t *testing.T) {
	rect := R(150, 0, 50, 50)
	tests := []struct {
		name   string
		p1, p2 Point
		want   bool
	}{
		{"crosses through", Pt(100, 25), Pt(250, 25), true},
		{"inside", Pt(160, 10), Pt(170, 10), true},
		{"one end inside", Pt(100, 25), Pt(160, 25), true},
		{"passes above", Pt(100, -20), Pt(250, -20), false},
		{"passes left", Pt(140, -10), Pt(140, 60), false},
		{"along top edge", Pt(100, 0), Pt(250, 0), true},
		{"touches corner", Pt(100, 50), Pt(150, 50), true},
		{"vertical through", Pt(175, -10), Pt(175, 100), true},
		{"stops short", Pt(100, 25), Pt(149, 25), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LineIntersectsRect(rect, tt.p1, tt.p2); got != tt.want {
				t.Errorf("LineIntersectsRect(%v, %v) = %v, want %v", tt.p1, tt.p2, got, tt.want)
			}
		})
	}
}

func TestLineIntersectsDegenerateRect(t *testing.T) {
	point := R(5, 5, 0, 0)
	if !LineIntersectsRect(point, Pt(0, 5), Pt(10, 5)) {
		t.Error("segment through a point-sized rect should intersect it")
	}
	if LineIntersectsRect(point, Pt(0, 6), Pt(10, 6)) {
		t.Error("segment beside a point-sized rect should not intersect it")
	}
}

func TestSimplifyPolyline(t *testing.T) {
	in := []Point{Pt(0, 0), Pt(0, 0), Pt(10, 0), Pt(20, 0), Pt(20, 10), Pt(20, 30)}
	got := SimplifyPolyline(in)
	want := []Point{Pt(0, 0), Pt(20, 0), Pt(20, 30)}
	if len(got) != len(want) {
		t.Fatalf("SimplifyPolyline = %v, want %v", got, want)
	}
	for i := range want {
		if !got[i].Eq(want[i]) {
			t.Errorf("point %d = %v, want %v", i, got[i], want[i])
		}
	}
	if PolylineLength(got) != PolylineLength(in) {
		t.Errorf("simplification changed length: %v vs %v", PolylineLength(got), PolylineLength(in))
	}
}

func TestIsOrthogonal(t *testing.T) {
	if !IsOrthogonal([]Point{Pt(0, 0), Pt(10, 0), Pt(10, 10)}) {
		t.Error("expected orthogonal polyline")
	}
	if IsOrthogonal([]Point{Pt(0, 0), Pt(10, 10)}) {
		t.Error("diagonal segment should not be orthogonal")
	}
}
