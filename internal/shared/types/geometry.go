package types

// Point is a pixel coordinate. Window positions and pointer samples share it.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p translated by d
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the delta from q to p
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size holds pixel dimensions
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Viewport is the client's visible area as reported by the browser
type Viewport = Size

// Rect is a positioned rectangle
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RectOf combines a position and a size
func RectOf(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, Width: s.Width, Height: s.Height}
}

// Origin returns the top-left corner
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the dimensions
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}
