package engine

import (
	"strings"

	"github.com/rivo/uniseg"
)

// commonWidths lists candidate terminal widths in priority order. Earlier
// entries win ties.
var commonWidths = [...]int{80, 120, 132, 100, 160}

const (
	widthTolerance  = 2   // a line within ±2 columns counts toward a candidate
	minContentLines = 3   // below this there is not enough signal
	minWidthScore   = 0.3 // share of content lines a candidate must reach
)

// AnalyzeWidth estimates the column width text was hard-wrapped at, based on
// how many non-empty lines end near one of the common widths (80, 120, 132, 100, 160). Lengths are counted
// in user-perceived characters, not bytes.
func AnalyzeWidth(text string) WidthAnalysis {
	dist := make(map[int]int)
	contentLines := 0

	for _, line := range strings.Split(text, "\n") {
		n := uniseg.GraphemeClusterCount(line)
		if n == 0 {
			continue
		}
		dist[n]++
		contentLines++
	}

	if contentLines < minContentLines {
		return WidthAnalysis{LineLengthDistribution: dist}
	}

	var best *int
	bestScore := 0.0

	for _, target := range commonWidths {
		near := 0
		for length, count := range dist {
			if abs(length-target) <= widthTolerance {
				near += count
			}
		}
		score := float64(near) / float64(contentLines)

		if score > bestScore && score >= minWidthScore {
			bestScore = score
			w := target
			best = &w
		}
	}

	return WidthAnalysis{
		DetectedWidth:          best,
		Confidence:             bestScore,
		LineLengthDistribution: dist,
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
