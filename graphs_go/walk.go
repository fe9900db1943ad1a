package graphs_go

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb/geo"

	"github.com/mohamedthameursassi/geobase/models"
	"github.com/mohamedthameursassi/geobase/utils"
)

// ErrInvalidBudget is returned for a non-positive hop count or length.
var ErrInvalidBudget = errors.New("walk budget must be positive")

// Walk is the result of one traversal. DeadEnd reports that the walk stopped
// before exhausting its budget because no segment starts where the last one
// ends.
type Walk struct {
	Segments     []models.Segment
	LengthMeters float64
	DeadEnd      bool
}

// IDs returns the segment IDs of the walk in order.
func (w Walk) IDs() []string {
	ids := make([]string, len(w.Segments))
	for i, s := range w.Segments {
		ids[i] = s.ID
	}
	return ids
}

// Walker performs bounded random walks over a SegmentIndex. At each step it
// follows the first segment registered at the current end key.
type Walker struct {
	index *SegmentIndex
	rng   models.Random
}

// NewWalker binds a walker to idx. A nil rng gets a time-seeded source.
func NewWalker(idx *SegmentIndex, rng models.Random) *Walker {
	if rng == nil {
		rng = utils.NewRand(0)
	}
	return &Walker{index: idx, rng: rng}
}

func (w *Walker) seed() models.Segment {
	return w.index.At(w.rng.IntN(w.index.Len()))
}

// WalkByHopCount walks at most maxHops segments from a random seed.
func (w *Walker) WalkByHopCount(maxHops int) (Walk, error) {
	if maxHops <= 0 {
		return Walk{}, fmt.Errorf("%w: maxHops=%d", ErrInvalidBudget, maxHops)
	}
	return w.WalkFromByHopCount(w.seed(), maxHops)
}

// WalkByLength walks from a random seed until the cumulative length exceeds
// maxMeters. The segment crossing the bound is included.
func (w *Walker) WalkByLength(maxMeters float64) (Walk, error) {
	if !(maxMeters > 0) {
		return Walk{}, fmt.Errorf("%w: maxMeters=%v", ErrInvalidBudget, maxMeters)
	}
	return w.WalkFromByLength(w.seed(), maxMeters)
}

func (w *Walker) WalkFromByHopCount(seed models.Segment, maxHops int) (Walk, error) {
	if maxHops <= 0 {
		return Walk{}, fmt.Errorf("%w: maxHops=%d", ErrInvalidBudget, maxHops)
	}

	walk := Walk{Segments: make([]models.Segment, 0, min(maxHops, w.index.Len()))}
	current := seed
	for hop := 0; hop < maxHops; hop++ {
		walk.Segments = append(walk.Segments, current)
		walk.LengthMeters += geo.Length(current.Geometry)
		if hop == maxHops-1 {
			break
		}
		next, ok := w.index.next(w.index.EndKey(current))
		if !ok {
			walk.DeadEnd = true
			break
		}
		current = next
	}
	return walk, nil
}

func (w *Walker) WalkFromByLength(seed models.Segment, maxMeters float64) (Walk, error) {
	if !(maxMeters > 0) {
		return Walk{}, fmt.Errorf("%w: maxMeters=%v", ErrInvalidBudget, maxMeters)
	}

	var walk Walk
	current := seed
	// A cycle of zero-length segments never reaches the bound.
	stalled := 0
	for {
		walk.Segments = append(walk.Segments, current)
		length := geo.Length(current.Geometry)
		walk.LengthMeters += length
		if walk.LengthMeters > maxMeters {
			break
		}
		if length > 0 {
			stalled = 0
		} else if stalled++; stalled > w.index.Len() {
			break
		}
		next, ok := w.index.next(w.index.EndKey(current))
		if !ok {
			walk.DeadEnd = true
			break
		}
		current = next
	}
	return walk, nil
}
