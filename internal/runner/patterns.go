package runner

import "math"

// CoinPattern is a deterministic coin layout.
type CoinPattern int

const (
	PatternSingle CoinPattern = iota
	PatternLine
	PatternArc
	PatternZigzag
	PatternVertical
	patternCount
)

// String returns the pattern name.
func (p CoinPattern) String() string {
	switch p {
	case PatternSingle:
		return "single"
	case PatternLine:
		return "line"
	case PatternArc:
		return "arc"
	case PatternZigzag:
		return "zigzag"
	case PatternVertical:
		return "vertical"
	default:
		return "unknown"
	}
}

// patternShape holds the spacing parameters shared by all layouts.
type patternShape struct {
	spacing   float64
	arcHeight float64
	minY      float64 // Coins never go above this y
}

// layout returns coin centers for pattern p starting at (x, y), where y is the
// baseline of the lowest coin. count is ignored for PatternSingle.
func (s patternShape) layout(p CoinPattern, x, y float64, count int) [][2]float64 {
	if p == PatternSingle || count < 1 {
		count = 1
	}
	pts := make([][2]float64, 0, count)
	for i := 0; i < count; i++ {
		px, py := x, y
		switch p {
		case PatternLine:
			px = x + float64(i)*s.spacing
		case PatternArc:
			px = x + float64(i)*s.spacing
			if count > 1 {
				py = y - s.arcHeight*math.Sin(math.Pi*float64(i)/float64(count-1))
			}
		case PatternZigzag:
			px = x + float64(i)*s.spacing
			if i%2 == 1 {
				py = y - s.spacing
			}
		case PatternVertical:
			py = y - float64(i)*s.spacing
		}
		pts = append(pts, [2]float64{px, max(py, s.minY)})
	}
	return pts
}

// width returns the horizontal extent of a pattern.
func (s patternShape) width(p CoinPattern, count int) float64 {
	switch p {
	case PatternLine, PatternArc, PatternZigzag:
		if count > 1 {
			return float64(count-1) * s.spacing
		}
	}
	return 0
}
