// Package spatial provides the grid-bucketed spatial index the reducer
// and AI use for radius and nearest-entity queries. The teacher has no
// equivalent (its CombatSystem/HarvesterSystem do linear scans over the
// whole World), so this module is new, grounded directly on spec.md §4.1.
package spatial

import (
	"encoding/binary"
	"sort"

	"github.com/brentp/intintmap"
	"github.com/cespare/xxhash/v2"
)

// Point is anything the grid can index: an id, a position, and a radius
// (so cell size can be sized to at least 2x the largest entity).
type Point struct {
	ID     uint64
	X, Y   float64
	Radius float64
}

// Grid is a uniform spatial hash rebuilt from nothing every tick.
// Bucket keys are hashed with xxhash and looked up through an
// open-addressed intintmap table, which only ever grows during a single
// tick's rebuild and is thrown away afterward — never needing a delete.
type Grid struct {
	cellSize float64
	table    *intintmap.Map // bucket key -> index into buckets
	buckets  [][]Point
}

// NewGrid builds an empty grid with the given cell size (caller picks
// >= 2x the largest entity radius per spec.md §4.1).
func NewGrid(cellSize float64, expectedEntities int) *Grid {
	return &Grid{
		cellSize: cellSize,
		table:    intintmap.New(expectedEntities/4+16, 0.75),
	}
}

func (g *Grid) cellOf(x, y float64) (int64, int64) {
	return int64(x / g.cellSize), int64(y / g.cellSize)
}

func bucketKey(cx, cy int64) int64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(cx))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(cy))
	return int64(xxhash.Sum64(buf[:]))
}

// Rebuild clears the grid and reinserts every point, once per tick.
func (g *Grid) Rebuild(points []Point) {
	g.table = intintmap.New(len(points)/4+16, 0.75)
	g.buckets = g.buckets[:0]

	for _, p := range points {
		cx, cy := g.cellOf(p.X, p.Y)
		key := bucketKey(cx, cy)
		idx, ok := g.table.Get(key)
		if !ok {
			idx = int64(len(g.buckets))
			g.buckets = append(g.buckets, nil)
			g.table.Put(key, idx)
		}
		g.buckets[idx] = append(g.buckets[idx], p)
	}
	for i := range g.buckets {
		sort.Slice(g.buckets[i], func(a, b int) bool { return g.buckets[i][a].ID < g.buckets[i][b].ID })
	}
}

func (g *Grid) bucketAt(cx, cy int64) ([]Point, bool) {
	idx, ok := g.table.Get(bucketKey(cx, cy))
	if !ok {
		return nil, false
	}
	return g.buckets[idx], true
}

// QueryRadius returns every point whose center lies within r+buffer of
// (x,y), where buffer should be >= the largest entity radius so that no
// collision pair is missed. Result is stable-sorted by id.
func (g *Grid) QueryRadius(x, y, r, buffer float64) []Point {
	return g.queryRadius(x, y, r, buffer, nil)
}

// QueryRadiusByType narrows QueryRadius with a caller-supplied predicate
// (e.g. filtering by entity kind, looked up externally by id).
func (g *Grid) QueryRadiusByType(x, y, r, buffer float64, accept func(Point) bool) []Point {
	return g.queryRadius(x, y, r, buffer, accept)
}

func (g *Grid) queryRadius(x, y, r, buffer float64, accept func(Point) bool) []Point {
	totalR := r + buffer
	minCX, minCY := g.cellOf(x-totalR, y-totalR)
	maxCX, maxCY := g.cellOf(x+totalR, y+totalR)

	var out []Point
	rr := totalR * totalR
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			bucket, ok := g.bucketAt(cx, cy)
			if !ok {
				continue
			}
			for _, p := range bucket {
				dx, dy := p.X-x, p.Y-y
				if dx*dx+dy*dy > rr {
					continue
				}
				if accept != nil && !accept(p) {
					continue
				}
				out = append(out, p)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FindNearest does an expanding-ring search outward from (x,y) up to
// maxR, returning the nearest point satisfying predicate, or false if
// none is found within range.
func (g *Grid) FindNearest(x, y, maxR float64, predicate func(Point) bool) (Point, bool) {
	ring := g.cellSize
	for ring <= maxR+g.cellSize {
		candidates := g.queryRadius(x, y, ring, 0, predicate)
		if len(candidates) > 0 {
			best := candidates[0]
			bestD := dist2(best, x, y)
			for _, c := range candidates[1:] {
				if d := dist2(c, x, y); d < bestD {
					best, bestD = c, d
				} else if d == bestD && c.ID < best.ID {
					best = c
				}
			}
			return best, true
		}
		ring += g.cellSize
	}
	return Point{}, false
}

func dist2(p Point, x, y float64) float64 {
	dx, dy := p.X-x, p.Y-y
	return dx*dx + dy*dy
}
