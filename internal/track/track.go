package track

import (
	"errors"
	"fmt"
	"sort"
)

// Domain errors for track construction.
var (
	// ErrInvalidTrack indicates the segment list cannot form a valid course.
	ErrInvalidTrack = errors.New("track: invalid segment layout")
)

// Segment is one stretch of the course with uniform slope and friction.
// Slope is a grade ratio (rise over run, 0.1 = 10% climb).
type Segment struct {
	Start    float64 `yaml:"start" json:"start"`
	End      float64 `yaml:"end" json:"end"`
	Slope    float64 `yaml:"slope" json:"slope"`
	Friction float64 `yaml:"friction" json:"friction"`
}

func (s Segment) Length() float64 { return s.End - s.Start }

// Track is an immutable course description. Segments are contiguous,
// sorted, and partition [0, Length] with no gaps or overlaps.
type Track struct {
	segments  []Segment
	length    float64
	timeLimit float64
}

// New validates the segment list and builds a track. Segments must start
// at 0, be contiguous and strictly increasing, and carry non-negative
// friction. A positive time limit is required.
func New(segments []Segment, timeLimit float64) (*Track, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: no segments", ErrInvalidTrack)
	}
	if timeLimit <= 0 {
		return nil, fmt.Errorf("%w: time limit must be positive, got %f", ErrInvalidTrack, timeLimit)
	}
	if segments[0].Start != 0 {
		return nil, fmt.Errorf("%w: first segment starts at %f, want 0", ErrInvalidTrack, segments[0].Start)
	}
	for i, seg := range segments {
		if seg.End <= seg.Start {
			return nil, fmt.Errorf("%w: segment %d has non-positive length [%f, %f]", ErrInvalidTrack, i, seg.Start, seg.End)
		}
		if seg.Friction < 0 {
			return nil, fmt.Errorf("%w: segment %d has negative friction %f", ErrInvalidTrack, i, seg.Friction)
		}
		if i > 0 && seg.Start != segments[i-1].End {
			return nil, fmt.Errorf("%w: gap or overlap between segments %d and %d", ErrInvalidTrack, i-1, i)
		}
	}

	segs := make([]Segment, len(segments))
	copy(segs, segments)

	return &Track{
		segments:  segs,
		length:    segs[len(segs)-1].End,
		timeLimit: timeLimit,
	}, nil
}

func (t *Track) Length() float64    { return t.length }
func (t *Track) TimeLimit() float64 { return t.timeLimit }

// Segments returns a copy of the segment list.
func (t *Track) Segments() []Segment {
	segs := make([]Segment, len(t.segments))
	copy(segs, t.segments)
	return segs
}

// SegmentAt returns the index and segment containing pos. Positions at or
// past the finish line clamp to the last segment; negative positions clamp
// to the first.
func (t *Track) SegmentAt(pos float64) (int, Segment) {
	if pos < t.segments[0].End {
		return 0, t.segments[0]
	}
	if pos >= t.length {
		last := len(t.segments) - 1
		return last, t.segments[last]
	}
	// First segment whose end exceeds pos.
	idx := sort.Search(len(t.segments), func(i int) bool {
		return t.segments[i].End > pos
	})
	return idx, t.segments[idx]
}

func (t *Track) SlopeAt(pos float64) float64 {
	_, seg := t.SegmentAt(pos)
	return seg.Slope
}

func (t *Track) FrictionAt(pos float64) float64 {
	_, seg := t.SegmentAt(pos)
	return seg.Friction
}

// NextSegment returns the segment after the one containing pos, or false
// when pos is already in the final segment.
func (t *Track) NextSegment(pos float64) (Segment, bool) {
	idx, _ := t.SegmentAt(pos)
	if idx >= len(t.segments)-1 {
		return Segment{}, false
	}
	return t.segments[idx+1], true
}

// ElevationProfile samples elevation every step meters by integrating the
// grade. Used for terrain rendering, not by the physics.
func (t *Track) ElevationProfile(step float64) []float64 {
	if step <= 0 {
		step = 1.0
	}
	n := int(t.length/step) + 1
	profile := make([]float64, 0, n)
	elevation := 0.0
	for x := 0.0; x <= t.length; x += step {
		profile = append(profile, elevation)
		elevation += t.SlopeAt(x) * step
	}
	return profile
}
