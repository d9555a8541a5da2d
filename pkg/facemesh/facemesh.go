package facemesh

// PointCount is the number of landmarks in a full face mesh.
const PointCount = 468

// Landmark indices with fixed semantic meaning in the 468-point mesh.
const (
	NoseTip       = 1
	Forehead      = 10
	LeftEyeOuter  = 33
	Chin          = 152
	NoseBridge    = 168
	LeftEar       = 234
	RightEyeOuter = 263
	RightEar      = 454
)

// Point is a single tracked mesh point. X and Y are normalized to [0,1]
// image coordinates, Z is relative depth with no fixed scale. Coordinates
// are single precision because that is what mesh models emit; downstream
// pixel math depends on that exact precision.
type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Set is one frame's landmarks, index addressed. An empty or short set
// means no face was detected. Points are immutable once produced.
type Set []Point

func (s Set) Complete() bool {
	return len(s) == PointCount
}

// At returns the landmark at index i, or a zero Point and false when i is
// out of range. Lookups never panic on short sets.
func (s Set) At(i int) (Point, bool) {
	if i < 0 || i >= len(s) {
		return Point{}, false
	}
	return s[i], true
}
