package frame

import "testing"

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{5.2, "0:05"},
		{59.9, "0:59"},
		{60, "1:00"},
		{65.4, "1:05"},
		{754.01, "12:34"},
		{-3, "0:00"},
	}
	for _, c := range cases {
		if got := FormatTimestamp(c.seconds); got != c.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", c.seconds, got, c.want)
		}
	}
}

func TestNewAssignsUniqueIDs(t *testing.T) {
	a := New([]byte{1}, 1.0)
	b := New([]byte{2}, 2.0)
	if a.ID == "" || b.ID == "" {
		t.Fatal("expected non-empty frame IDs")
	}
	if a.ID == b.ID {
		t.Fatalf("expected distinct IDs, both were %q", a.ID)
	}
	if a.DisplayTime != "0:01" {
		t.Errorf("DisplayTime = %q, want 0:01", a.DisplayTime)
	}
}

func TestSetInsertKeepsChronologicalOrder(t *testing.T) {
	s := NewSet()
	for _, ts := range []float64{30, 10, 20, 5, 25} {
		s.Insert(New(nil, ts))
	}
	got := s.Frames()
	want := []float64{5, 10, 20, 25, 30}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, ts := range want {
		if got[i].Timestamp != ts {
			t.Errorf("frames[%d].Timestamp = %v, want %v", i, got[i].Timestamp, ts)
		}
	}
}

func TestSetRemoveDoesNotReorder(t *testing.T) {
	s := NewSet()
	frames := make([]Frame, 4)
	for i := range frames {
		frames[i] = New(nil, float64(i*10))
		s.Insert(frames[i])
	}

	if !s.Remove(frames[1].ID) {
		t.Fatal("Remove returned false for a present frame")
	}
	if s.Remove("missing") {
		t.Error("Remove returned true for an absent frame")
	}

	got := s.Frames()
	wantIDs := []string{frames[0].ID, frames[2].ID, frames[3].ID}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("frames[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestSetReplace(t *testing.T) {
	s := NewSet(New(nil, 1), New(nil, 2))
	repl := []Frame{New(nil, 7), New(nil, 9)}
	s.Replace(repl)
	if s.Len() != 2 || s.At(0).Timestamp != 7 || s.At(1).Timestamp != 9 {
		t.Fatalf("unexpected contents after Replace: %+v", s.Frames())
	}
}
