package model

import (
	"math"
	"sort"
)

// Centroid returns the mean position of a set of players.
func Centroid(players []PlayerPosition) (x, y float64) {
	if len(players) == 0 {
		return 0, 0
	}
	for _, p := range players {
		x += p.X
		y += p.Y
	}
	n := float64(len(players))
	return x / n, y / n
}

// BlockExtent returns the longitudinal length and lateral width spanned by a
// set of players.
func BlockExtent(players []PlayerPosition) (length, width float64) {
	if len(players) == 0 {
		return 0, 0
	}
	minX, maxX := players[0].X, players[0].X
	minY, maxY := players[0].Y, players[0].Y
	for _, p := range players[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return maxX - minX, maxY - minY
}

// MeanSpacing returns the mean pairwise distance among a set of players.
// Fewer than two players yields 0.
func MeanSpacing(players []PlayerPosition) float64 {
	n := len(players)
	if n < 2 {
		return 0
	}
	sum, pairs := 0.0, 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sum += Dist(players[i], players[j])
			pairs++
		}
	}
	return sum / float64(pairs)
}

// ConvexHullArea returns the area of the convex hull of a set of players,
// via Andrew's monotone chain and the shoelace formula. Fewer than three
// non-collinear players span no area and yield 0.
func ConvexHullArea(players []PlayerPosition) float64 {
	if len(players) < 3 {
		return 0
	}
	pts := make([]PlayerPosition, len(players))
	copy(pts, players)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	cross := func(o, a, b PlayerPosition) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	var hull []PlayerPosition
	for _, p := range pts { // lower chain
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- { // upper chain
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	hull = hull[:len(hull)-1]

	if len(hull) < 3 {
		return 0
	}
	area := 0.0
	for i := range hull {
		j := (i + 1) % len(hull)
		area += hull[i].X*hull[j].Y - hull[j].X*hull[i].Y
	}
	return math.Abs(area) / 2
}
