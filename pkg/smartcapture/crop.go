package smartcapture

import (
	"image"
	"image/draw"

	"SmartCapture/pkg/facemesh"
)

// Region computes the padded pixel rectangle around all landmarks. The
// second return value is false when the clamped rectangle has no area; the
// caller then skips the frame silently instead of erroring.
//
// The box math runs in single precision with truncating conversions.
// Landmarks come from a single-precision pipeline and the historical pixel
// rectangles (which hosts have calibrated UI overlays against) shift by a
// pixel if any step is widened or rounded.
func Region(set facemesh.Set, imgW, imgH int, padding float64) (image.Rectangle, bool) {
	minX, minY := float32(1.0), float32(1.0)
	maxX, maxY := float32(0.0), float32(0.0)

	for _, p := range set {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	fw, fh := float32(imgW), float32(imgH)

	w := int((maxX - minX) * fw)
	h := int((maxY - minY) * fh)

	cx := int(minX*fw + float32(w/2))
	cy := int(minY*fh + float32(h/2))

	pad := float32(padding)
	padW := int(float32(w) * (1.0 + pad))
	padH := int(float32(h) * (1.0 + pad))

	x := cx - padW/2
	y := cy - padH/2

	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if padW > imgW-x {
		padW = imgW - x
	}
	if padH > imgH-y {
		padH = imgH - y
	}

	if padW <= 0 || padH <= 0 {
		return image.Rectangle{}, false
	}

	return image.Rect(x, y, x+padW, y+padH), true
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Crop extracts r from img as a standalone image in the source pixel
// format. Stdlib decoders all implement SubImage; anything else is copied
// through an NRGBA buffer.
func Crop(img image.Image, r image.Rectangle) image.Image {
	if si, ok := img.(subImager); ok {
		return si.SubImage(r)
	}

	out := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out
}
