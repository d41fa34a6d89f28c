package track

import (
	"errors"
	"testing"
)

func practiceSegments() []Segment {
	return []Segment{
		{Start: 0, End: 50, Slope: 0.0, Friction: 0.8},
		{Start: 50, End: 100, Slope: 0.1, Friction: 0.6},
		{Start: 100, End: 150, Slope: -0.1, Friction: 0.4},
	}
}

func TestNew(t *testing.T) {
	tr, err := New(practiceSegments(), 35.0)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if tr.Length() != 150 {
		t.Errorf("expected length 150, got %f", tr.Length())
	}
	if tr.TimeLimit() != 35.0 {
		t.Errorf("expected time limit 35, got %f", tr.TimeLimit())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		segments  []Segment
		timeLimit float64
	}{
		{"empty", nil, 35},
		{"zero time limit", practiceSegments(), 0},
		{"negative time limit", practiceSegments(), -1},
		{"nonzero start", []Segment{{Start: 10, End: 50}}, 35},
		{"zero length segment", []Segment{{Start: 0, End: 0}}, 35},
		{"negative length segment", []Segment{{Start: 0, End: -5}}, 35},
		{"negative friction", []Segment{{Start: 0, End: 50, Friction: -0.1}}, 35},
		{"gap", []Segment{{Start: 0, End: 50}, {Start: 60, End: 100}}, 35},
		{"overlap", []Segment{{Start: 0, End: 50}, {Start: 40, End: 100}}, 35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.segments, tt.timeLimit)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidTrack) {
				t.Errorf("expected ErrInvalidTrack, got %v", err)
			}
		})
	}
}

func TestSegmentAt(t *testing.T) {
	tr, err := New(practiceSegments(), 35.0)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	tests := []struct {
		pos      float64
		idx      int
		slope    float64
		friction float64
	}{
		{0, 0, 0.0, 0.8},
		{25, 0, 0.0, 0.8},
		{50, 1, 0.1, 0.6},
		{99.9, 1, 0.1, 0.6},
		{100, 2, -0.1, 0.4},
		{149.9, 2, -0.1, 0.4},
		// Clamped, not an error.
		{150, 2, -0.1, 0.4},
		{1000, 2, -0.1, 0.4},
		{-5, 0, 0.0, 0.8},
	}

	for _, tt := range tests {
		idx, seg := tr.SegmentAt(tt.pos)
		if idx != tt.idx {
			t.Errorf("pos %f: expected segment %d, got %d", tt.pos, tt.idx, idx)
		}
		if seg.Slope != tt.slope {
			t.Errorf("pos %f: expected slope %f, got %f", tt.pos, tt.slope, seg.Slope)
		}
		if tr.SlopeAt(tt.pos) != tt.slope {
			t.Errorf("pos %f: SlopeAt mismatch", tt.pos)
		}
		if tr.FrictionAt(tt.pos) != tt.friction {
			t.Errorf("pos %f: expected friction %f, got %f", tt.pos, tt.friction, tr.FrictionAt(tt.pos))
		}
	}
}

func TestNextSegment(t *testing.T) {
	tr, err := New(practiceSegments(), 35.0)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	next, ok := tr.NextSegment(25)
	if !ok {
		t.Fatal("expected next segment at pos 25")
	}
	if next.Start != 50 || next.Slope != 0.1 {
		t.Errorf("unexpected next segment: %+v", next)
	}

	if _, ok := tr.NextSegment(120); ok {
		t.Error("expected no next segment in final segment")
	}
}

func TestSegmentsImmutable(t *testing.T) {
	segs := practiceSegments()
	tr, err := New(segs, 35.0)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	// Mutating the input or the returned copy must not affect the track.
	segs[0].Slope = 9.0
	got := tr.Segments()
	got[1].Friction = -1

	if tr.SlopeAt(0) != 0.0 {
		t.Error("track mutated through input slice")
	}
	if tr.FrictionAt(60) != 0.6 {
		t.Error("track mutated through Segments copy")
	}
}

func TestElevationProfile(t *testing.T) {
	tr, err := New(practiceSegments(), 35.0)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	profile := tr.ElevationProfile(10)
	if len(profile) == 0 {
		t.Fatal("empty profile")
	}
	if profile[0] != 0 {
		t.Errorf("expected elevation 0 at start, got %f", profile[0])
	}
	// Flat for the first 50m.
	if profile[4] != 0 {
		t.Errorf("expected flat start, got %f", profile[4])
	}
	// Climbs on the middle segment.
	if profile[9] <= profile[5] {
		t.Error("expected climb between 50m and 100m")
	}
}
