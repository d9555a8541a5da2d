package smartcapture

import (
	"image"
	"image/color"
	"testing"

	"SmartCapture/pkg/facemesh"
)

// TestRegionPaddedBox pins the reference geometry: a landmark box spanning
// [0.2,0.2]-[0.6,0.7] of a 1000x1000 frame with 20% padding yields the
// rectangle (160,150)-(640,750).
func TestRegionPaddedBox(t *testing.T) {
	set := facemesh.Set{
		{X: 0.2, Y: 0.2},
		{X: 0.6, Y: 0.7},
		{X: 0.4, Y: 0.5},
	}

	r, ok := Region(set, 1000, 1000, 0.2)
	if !ok {
		t.Fatal("expected a usable region")
	}

	want := image.Rect(160, 150, 640, 750)
	if r != want {
		t.Errorf("region = %v, want %v", r, want)
	}
}

func TestRegionClampsToFrame(t *testing.T) {
	tests := []struct {
		name    string
		set     facemesh.Set
		padding float64
		want    image.Rectangle
	}{
		{
			name:    "padding pushes past origin",
			set:     facemesh.Set{{X: 0, Y: 0}, {X: 0.5, Y: 0.5}},
			padding: 0.5,
			want:    image.Rect(0, 0, 750, 750),
		},
		{
			name:    "full span stays inside frame",
			set:     facemesh.Set{{X: 0, Y: 0}, {X: 1, Y: 1}},
			padding: 0.2,
			want:    image.Rect(0, 0, 1000, 1000),
		},
		{
			name:    "box against right edge",
			set:     facemesh.Set{{X: 0.6, Y: 0.4}, {X: 1.0, Y: 0.8}},
			padding: 0.5,
			want:    image.Rect(500, 300, 1000, 900),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, ok := Region(tc.set, 1000, 1000, tc.padding)
			if !ok {
				t.Fatal("expected a usable region")
			}
			if r != tc.want {
				t.Errorf("region = %v, want %v", r, tc.want)
			}
		})
	}
}

func TestRegionDegenerate(t *testing.T) {
	tests := []struct {
		name string
		set  facemesh.Set
	}{
		{"empty set", facemesh.Set{}},
		{"nil set", nil},
		{"single point", facemesh.Set{{X: 0.5, Y: 0.5}}},
		{"coincident points", facemesh.Set{{X: 0.3, Y: 0.4}, {X: 0.3, Y: 0.4}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := Region(tc.set, 1000, 1000, 0.2); ok {
				t.Error("expected no region")
			}
		})
	}
}

func TestCropSharesPixelsViaSubImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	src.SetNRGBA(15, 15, color.NRGBA{R: 200, A: 255})

	r := image.Rect(10, 10, 30, 40)
	out := Crop(src, r)

	if out.Bounds() != r {
		t.Fatalf("bounds = %v, want %v", out.Bounds(), r)
	}
	got := color.NRGBAModel.Convert(out.At(15, 15)).(color.NRGBA)
	if got.R != 200 {
		t.Errorf("pixel (15,15) R = %d, want 200", got.R)
	}
}

func TestCropCopiesForeignImages(t *testing.T) {
	src := image.NewUniform(color.NRGBA{G: 120, A: 255})

	r := image.Rect(10, 10, 20, 30)
	out := Crop(src, r)

	b := out.Bounds()
	if b.Dx() != r.Dx() || b.Dy() != r.Dy() {
		t.Fatalf("bounds = %v, want %dx%d", b, r.Dx(), r.Dy())
	}
	got := color.NRGBAModel.Convert(out.At(b.Min.X, b.Min.Y)).(color.NRGBA)
	if got.G != 120 {
		t.Errorf("pixel G = %d, want 120", got.G)
	}
}
