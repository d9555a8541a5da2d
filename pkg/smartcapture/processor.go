package smartcapture

import (
	"image"

	"SmartCapture/pkg/facemesh"
	"SmartCapture/pkg/headpose"
)

// Outcome is the result of one processed frame.
type Outcome struct {
	// LimitReached marks frames dropped before any estimation work because
	// the session already holds its maximum captures. No status string
	// accompanies such frames.
	LimitReached bool

	Decision Decision
	Status   string
	Pose     headpose.Pose

	Accepted     bool
	CaptureCount int

	// CropRect and Cropped are set only on accepted frames whose padded
	// rectangle kept a positive area. An accepted frame with a degenerate
	// rectangle still counts; only the image output is skipped.
	CropRect image.Rectangle
	Cropped  image.Image
}

// Processor runs the per-frame pipeline for one capture session: limit
// short-circuit, pose estimate, gate decision, crop, count. Frames are
// processed one at a time by the single goroutine owning the session.
type Processor struct {
	estimator headpose.Estimator
	gate      Gate
	counter   *Counter
}

func NewProcessor(cfg Config, estimator headpose.Estimator) *Processor {
	return &Processor{
		estimator: estimator,
		gate:      NewGate(cfg),
		counter:   NewCounter(cfg.MaxCaptures),
	}
}

// NewProcessorAt resumes a session whose accepted count was persisted
// elsewhere.
func NewProcessorAt(cfg Config, estimator headpose.Estimator, count int) *Processor {
	p := NewProcessor(cfg, estimator)
	p.counter = NewCounterAt(cfg.MaxCaptures, count)
	return p
}

// ProcessFrame runs one (image, landmarks) pair through the pipeline. The
// image may be nil when the caller only needs the decision; an accepted
// frame then skips extraction but still counts.
func (p *Processor) ProcessFrame(img image.Image, set facemesh.Set) Outcome {
	if p.counter.Done() {
		return Outcome{LimitReached: true, CaptureCount: p.counter.Count()}
	}

	pose := p.estimator.Estimate(set)
	decision := p.gate.Evaluate(set, pose)

	out := Outcome{
		Decision:     decision,
		Status:       decision.Status(),
		Pose:         pose,
		CaptureCount: p.counter.Count(),
	}

	if decision != Accept {
		return out
	}

	if img != nil {
		bounds := img.Bounds()
		if r, ok := Region(set, bounds.Dx(), bounds.Dy(), p.gate.Config().Padding); ok {
			out.CropRect = r
			out.Cropped = Crop(img, r)
		}
	}

	p.counter.TryAccept()
	out.Accepted = true
	out.CaptureCount = p.counter.Count()

	return out
}

func (p *Processor) Count() int {
	return p.counter.Count()
}

func (p *Processor) Done() bool {
	return p.counter.Done()
}

func (p *Processor) Reset() {
	p.counter.Reset()
}
