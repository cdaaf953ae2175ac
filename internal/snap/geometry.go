package snap

import (
	"errors"
	"fmt"
)

// DefaultResetScale divides the visible frame to size the Reset rectangle.
const DefaultResetScale = 1.75

// ErrNotSnap is returned by Target for commands that do not produce a
// rectangle on the current screen.
var ErrNotSnap = errors.New("command has no snap target")

// Point is a position in screen coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width and height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect describes a rectangle by origin and size. Whether the origin is the
// bottom-left or top-left corner depends on the coordinate system it came
// from; see FlipY.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Contains uses half-open bounds so adjacent rectangles never share a point.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

func (r Rect) String() string {
	return fmt.Sprintf("(%.1f,%.1f %.1fx%.1f)", r.X, r.Y, r.Width, r.Height)
}

// Target computes the rectangle cmd places a window into, expressed in the
// same coordinate system as visible.
func Target(cmd Command, visible Rect, scale float64) (Rect, error) {
	switch cmd {
	case Maximize:
		return visible, nil
	case Left:
		return Rect{
			X:      visible.X,
			Y:      visible.Y,
			Width:  visible.Width / 2,
			Height: visible.Height,
		}, nil
	case Right:
		half := visible.Width / 2
		return Rect{
			X:      visible.X + half,
			Y:      visible.Y,
			Width:  half,
			Height: visible.Height,
		}, nil
	case Reset:
		if scale <= 0 {
			scale = DefaultResetScale
		}
		w := visible.Width / scale
		h := visible.Height / scale
		return Rect{
			X:      visible.X + (visible.Width-w)/2,
			Y:      visible.Y + (visible.Height-h)/2,
			Width:  w,
			Height: h,
		}, nil
	case MoveToNextDisplay:
		return Rect{}, ErrNotSnap
	default:
		return Rect{}, fmt.Errorf("%w: %s", ErrNotSnap, cmd)
	}
}

// FlipY converts the y coordinate of a box of the given height between the
// bottom-left and top-left origin systems. reference is the height of the
// primary screen. The conversion is its own inverse.
func FlipY(y, height, reference float64) float64 {
	return reference - (y + height)
}

// ToTopLeft flips r into the top-left origin system.
func ToTopLeft(r Rect, reference float64) Rect {
	r.Y = FlipY(r.Y, r.Height, reference)
	return r
}
