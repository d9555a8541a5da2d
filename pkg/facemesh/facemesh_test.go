package facemesh

import "testing"

func TestSetComplete(t *testing.T) {
	tests := []struct {
		name string
		set  Set
		want bool
	}{
		{"nil", nil, false},
		{"empty", Set{}, false},
		{"one short", make(Set, PointCount-1), false},
		{"full", make(Set, PointCount), true},
		{"overlong", make(Set, PointCount+1), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.set.Complete(); got != tc.want {
				t.Errorf("Complete() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSetAt(t *testing.T) {
	set := make(Set, PointCount)
	set[NoseTip] = Point{X: 0.5, Y: 0.6, Z: -0.1}

	p, ok := set.At(NoseTip)
	if !ok {
		t.Fatal("in-range lookup failed")
	}
	if p.X != 0.5 || p.Y != 0.6 || p.Z != -0.1 {
		t.Errorf("point = %+v", p)
	}

	for _, i := range []int{-1, PointCount, PointCount + 100} {
		if _, ok := set.At(i); ok {
			t.Errorf("At(%d) reported ok on a %d-point set", i, len(set))
		}
	}

	if _, ok := Set(nil).At(0); ok {
		t.Error("At(0) reported ok on a nil set")
	}
}
