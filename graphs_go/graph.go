package graphs_go

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/paulmach/orb"

	"github.com/mohamedthameursassi/geobase/logger"
	"github.com/mohamedthameursassi/geobase/models"
)

var (
	// ErrEmptyDataset is returned when an index is built from no segments.
	ErrEmptyDataset = errors.New("segment dataset is empty")

	// ErrMalformedSegment is returned for a segment with fewer than two
	// points, an empty ID or an ID already present in the dataset.
	ErrMalformedSegment = errors.New("malformed segment")
)

// KeySeparator joins the two coordinate components of an endpoint key.
const KeySeparator = ","

// KeyFunc derives the adjacency key of a point. The same function is used
// for start and end points.
type KeyFunc func(p orb.Point) string

// ExactKey is the textual concatenation of both coordinates using the
// shortest representation that round-trips. Endpoints that differ in their
// last bit are disconnected.
func ExactKey(p orb.Point) string {
	return strconv.FormatFloat(p[0], 'f', -1, 64) + KeySeparator + strconv.FormatFloat(p[1], 'f', -1, 64)
}

// RoundedKey returns a key function that rounds both coordinates to the given
// number of decimals before formatting, so near-miss endpoints are chained.
func RoundedKey(decimals int) KeyFunc {
	scale := math.Pow(10, float64(decimals))
	return func(p orb.Point) string {
		x := math.Round(p[0]*scale) / scale
		y := math.Round(p[1]*scale) / scale
		return strconv.FormatFloat(x, 'f', decimals, 64) + KeySeparator + strconv.FormatFloat(y, 'f', decimals, 64)
	}
}

// SegmentIndex is a read-only adjacency index over a fixed segment
// collection. It is safe for concurrent readers once built.
type SegmentIndex struct {
	segments   []models.Segment
	byID       map[string]int
	byStartKey map[string][]int
	key        KeyFunc
}

type indexOptions struct {
	key    KeyFunc
	logger *slog.Logger
}

type IndexOption func(*indexOptions)

// WithKeyFunc replaces ExactKey as the endpoint key. nil keeps the default.
func WithKeyFunc(fn KeyFunc) IndexOption {
	return func(o *indexOptions) {
		if fn != nil {
			o.key = fn
		}
	}
}

func WithLogger(l *slog.Logger) IndexOption {
	return func(o *indexOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewSegmentIndex registers every segment by ID and by the key of its first
// point. Segments sharing a start key keep dataset order.
func NewSegmentIndex(segments []models.Segment, opts ...IndexOption) (*SegmentIndex, error) {
	o := indexOptions{
		key:    ExactKey,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if len(segments) == 0 {
		return nil, ErrEmptyDataset
	}

	idx := &SegmentIndex{
		segments:   make([]models.Segment, len(segments)),
		byID:       make(map[string]int, len(segments)),
		byStartKey: make(map[string][]int),
		key:        o.key,
	}
	copy(idx.segments, segments)

	for i, s := range idx.segments {
		if len(s.Geometry) < 2 {
			return nil, fmt.Errorf("%w: segment %q has %d points", ErrMalformedSegment, s.ID, len(s.Geometry))
		}
		if s.ID == "" {
			return nil, fmt.Errorf("%w: segment at position %d has no id", ErrMalformedSegment, i)
		}
		if _, dup := idx.byID[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrMalformedSegment, s.ID)
		}
		idx.byID[s.ID] = i
		k := idx.key(s.Start())
		idx.byStartKey[k] = append(idx.byStartKey[k], i)
	}

	o.logger.Debug("segment index built",
		"segments", len(idx.segments),
		"start_keys", len(idx.byStartKey),
	)
	return idx, nil
}

func (idx *SegmentIndex) Len() int { return len(idx.segments) }

// At returns the i-th segment in dataset order.
func (idx *SegmentIndex) At(i int) models.Segment { return idx.segments[i] }

// Segments returns a copy of the indexed segments in dataset order.
func (idx *SegmentIndex) Segments() []models.Segment {
	out := make([]models.Segment, len(idx.segments))
	copy(out, idx.segments)
	return out
}

func (idx *SegmentIndex) ByID(id string) (models.Segment, bool) {
	i, ok := idx.byID[id]
	if !ok {
		return models.Segment{}, false
	}
	return idx.segments[i], true
}

// Outgoing returns the segments whose first point has the given key, in
// registration order.
func (idx *SegmentIndex) Outgoing(key string) []models.Segment {
	positions := idx.byStartKey[key]
	if len(positions) == 0 {
		return nil
	}
	out := make([]models.Segment, len(positions))
	for i, p := range positions {
		out[i] = idx.segments[p]
	}
	return out
}

// next is Outgoing(key)[0] without the copy.
func (idx *SegmentIndex) next(key string) (models.Segment, bool) {
	positions := idx.byStartKey[key]
	if len(positions) == 0 {
		return models.Segment{}, false
	}
	return idx.segments[positions[0]], true
}

func (idx *SegmentIndex) Key(p orb.Point) string { return idx.key(p) }

func (idx *SegmentIndex) StartKey(s models.Segment) string { return idx.key(s.Start()) }

func (idx *SegmentIndex) EndKey(s models.Segment) string { return idx.key(s.End()) }
