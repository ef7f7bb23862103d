// Package core provides fundamental types and utilities shared by the
// simulation and the terminal platform. It contains no external dependencies
// (especially no Bubble Tea) to keep game logic pure and testable.
package core

// Rect represents an axis-aligned bounding box in world units.
type Rect struct {
	X, Y float64 // Top-left corner position
	W, H float64 // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Intersects returns true if this rectangle overlaps with another.
// Touching edges do not count as overlap.
func (r Rect) Intersects(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// OverlapsX reports whether the horizontal spans of two rectangles overlap.
func (r Rect) OverlapsX(other Rect) bool {
	return r.X < other.Right() && other.X < r.Right()
}

// Contains returns true if the point (x, y) is inside this rectangle.
// The right and bottom edges are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Valid reports whether the rectangle has a positive area.
func (r Rect) Valid() bool {
	return r.W > 0 && r.H > 0
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// AbsF returns the absolute value of a float64.
func AbsF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
