package services

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/project"

	"github.com/mohamedthameursassi/geobase/models"
)

// ErrUnsupportedGeometry is returned when no single line can be read from a
// geometry.
var ErrUnsupportedGeometry = errors.New("geometry is not a single line")

// arcSteps is the number of chords used for a half circle.
const arcSteps = 16

// LineOf extracts the line carried by a LineString, a single-part
// MultiLineString or a Feature wrapping one of those.
func LineOf(g interface{}) (orb.LineString, error) {
	switch v := g.(type) {
	case orb.LineString:
		return v, nil
	case orb.MultiLineString:
		if len(v) == 1 {
			return v[0], nil
		}
	case *geojson.Feature:
		if v != nil {
			return LineOf(v.Geometry)
		}
	case geojson.Feature:
		return LineOf(v.Geometry)
	}
	return nil, ErrUnsupportedGeometry
}

// pointAlong returns the point at distance d (meters) from the start of ls.
// cum holds the cumulative geodesic distance at each vertex.
func pointAlong(ls orb.LineString, cum []float64, d float64) orb.Point {
	if d <= 0 {
		return ls[0]
	}
	last := len(ls) - 1
	if d >= cum[last] {
		return ls[last]
	}
	for j := 0; j < last; j++ {
		if d > cum[j+1] {
			continue
		}
		seg := cum[j+1] - cum[j]
		if seg == 0 {
			return ls[j]
		}
		return geo.PointAtBearingAndDistance(ls[j], geo.Bearing(ls[j], ls[j+1]), d-cum[j])
	}
	return ls[last]
}

func cumulative(ls orb.LineString) []float64 {
	cum := make([]float64, len(ls))
	for i := 1; i < len(ls); i++ {
		cum[i] = cum[i-1] + geo.Distance(ls[i-1], ls[i])
	}
	return cum
}

// LineChunk cuts ls into n consecutive sub-lines of equal geodesic length.
// Each chunk starts where the previous one ends.
func LineChunk(ls orb.LineString, n int) []orb.LineString {
	if n <= 0 || len(ls) < 2 {
		return nil
	}
	cum := cumulative(ls)
	total := cum[len(cum)-1]
	step := total / float64(n)

	chunks := make([]orb.LineString, 0, n)
	for i := 0; i < n; i++ {
		from := float64(i) * step
		to := float64(i+1) * step
		if i == n-1 {
			to = total
		}

		chunk := orb.LineString{pointAlong(ls, cum, from)}
		for j := 1; j < len(ls)-1; j++ {
			if cum[j] > from && cum[j] < to {
				chunk = append(chunk, ls[j])
			}
		}
		chunk = append(chunk, pointAlong(ls, cum, to))
		chunks = append(chunks, chunk)
	}
	return chunks
}

type vec struct{ x, y float64 }

func sub(a, b orb.Point) vec { return vec{a[0] - b[0], a[1] - b[1]} }

func (v vec) norm() float64 { return math.Hypot(v.x, v.y) }

func (v vec) unit() vec {
	n := v.norm()
	return vec{v.x / n, v.y / n}
}

// left is v rotated a quarter turn counter-clockwise.
func (v vec) left() vec { return vec{-v.y, v.x} }

func offset(p orb.Point, v vec, r float64) orb.Point {
	return orb.Point{p[0] + v.x*r, p[1] + v.y*r}
}

// arc appends the points strictly between angles from and to (radians,
// clockwise when to < from) on the circle of radius r around c.
func arc(ring orb.Ring, c orb.Point, r, from, to float64) orb.Ring {
	sweep := to - from
	steps := int(math.Ceil(math.Abs(sweep) / math.Pi * arcSteps))
	for i := 1; i < steps; i++ {
		a := from + sweep*float64(i)/float64(steps)
		ring = append(ring, orb.Point{c[0] + r*math.Cos(a), c[1] + r*math.Sin(a)})
	}
	return ring
}

func angle(v vec) float64 { return math.Atan2(v.y, v.x) }

// clockwiseTo returns the angle at or below from that is equivalent to to.
func clockwiseTo(from, to float64) float64 {
	for to > from {
		to -= 2 * math.Pi
	}
	for from-to > 2*math.Pi {
		to += 2 * math.Pi
	}
	return to
}

// leftSide appends the left offset of pts, walking forward. Outer corners are
// rounded; inner corners use the offset-line intersection when both
// neighbouring segments are long enough for it, the vertex itself otherwise.
func leftSide(ring orb.Ring, pts []orb.Point, r float64) orb.Ring {
	dirs := make([]vec, len(pts)-1)
	lens := make([]float64, len(pts)-1)
	for i := range dirs {
		d := sub(pts[i+1], pts[i])
		lens[i] = d.norm()
		dirs[i] = d.unit()
	}

	ring = append(ring, offset(pts[0], dirs[0].left(), r))
	for k := 1; k < len(pts)-1; k++ {
		prev, next := dirs[k-1], dirs[k]
		cross := prev.x*next.y - prev.y*next.x
		dot := prev.x*next.x + prev.y*next.y
		a := offset(pts[k], prev.left(), r)
		b := offset(pts[k], next.left(), r)

		switch {
		case math.Abs(cross) < 1e-12 && dot > 0:
			ring = append(ring, a)
		case cross > 0:
			// Left turn: the left side is the inner side.
			u := r * cross / (1 + dot)
			if 1+dot > 1e-9 && u <= lens[k-1] && u <= lens[k] {
				ring = append(ring, orb.Point{a[0] - prev.x*u, a[1] - prev.y*u})
			} else {
				ring = append(ring, a, pts[k], b)
			}
		default:
			from := angle(prev.left())
			ring = append(ring, a)
			ring = arc(ring, pts[k], r, from, clockwiseTo(from, angle(next.left())))
			ring = append(ring, b)
		}
	}
	last := len(pts) - 1
	return append(ring, offset(pts[last], dirs[last-1].left(), r))
}

// planarBuffer buffers a Mercator-projected polyline by r projected units.
func planarBuffer(pts []orb.Point, r float64) orb.Ring {
	var ring orb.Ring
	if len(pts) == 1 {
		c := pts[0]
		for i := 0; i < 2*arcSteps; i++ {
			a := 2 * math.Pi * float64(i) / (2 * arcSteps)
			ring = append(ring, orb.Point{c[0] + r*math.Cos(a), c[1] + r*math.Sin(a)})
		}
		return append(ring, ring[0])
	}

	rev := make([]orb.Point, len(pts))
	for i, p := range pts {
		rev[len(pts)-1-i] = p
	}

	ring = leftSide(ring, pts, r)
	end := sub(pts[len(pts)-1], pts[len(pts)-2]).unit().left()
	ring = arc(ring, pts[len(pts)-1], r, angle(end), angle(end)-math.Pi)
	ring = leftSide(ring, rev, r)
	start := sub(rev[len(rev)-1], rev[len(rev)-2]).unit().left()
	ring = arc(ring, rev[len(rev)-1], r, angle(start), angle(start)-math.Pi)
	return append(ring, ring[0])
}

// Buffer returns the polygon covering every point within radiusMeters of ls.
// The line is buffered in Web Mercator with the radius scaled at the line's
// mid latitude, which keeps corridors of a few kilometres accurate to well
// under a percent. Self-overlapping lines may yield a self-intersecting ring.
func Buffer(ls orb.LineString, radiusMeters float64) orb.Polygon {
	if len(ls) == 0 {
		return nil
	}

	pts := make([]orb.Point, 0, len(ls))
	for _, p := range ls {
		m := project.WGS84.ToMercator(p)
		if n := len(pts); n > 0 && pts[n-1] == m {
			continue
		}
		pts = append(pts, m)
	}

	lat := ls.Bound().Center().Lat()
	r := radiusMeters / math.Cos(lat*math.Pi/180)

	ring := planarBuffer(pts, r)
	for i := range ring {
		ring[i] = project.Mercator.ToWGS84(ring[i])
	}
	if ring.Orientation() != orb.CCW {
		ring.Reverse()
	}
	return orb.Polygon{ring}
}

// RandomPointsInBound draws n points uniformly in b.
func RandomPointsInBound(b orb.Bound, n int, rng models.Random) []orb.Point {
	pts := make([]orb.Point, n)
	for i := range pts {
		pts[i] = orb.Point{
			b.Min[0] + rng.Float64()*(b.Max[0]-b.Min[0]),
			b.Min[1] + rng.Float64()*(b.Max[1]-b.Min[1]),
		}
	}
	return pts
}

// PointsInPolygon keeps the points contained in poly, preserving order.
func PointsInPolygon(pts []orb.Point, poly orb.Polygon) []orb.Point {
	kept := make([]orb.Point, 0, len(pts))
	for _, p := range pts {
		if planar.PolygonContains(poly, p) {
			kept = append(kept, p)
		}
	}
	return kept
}
