package frame

import "sort"

// Set is an ordered sequence of frames kept in non-decreasing timestamp
// order. Downstream code assumes position encodes step sequence, so
// mutations must never reorder entries they do not touch.
type Set struct {
	frames []Frame
}

// NewSet builds a Set from frames already in chronological order.
func NewSet(frames ...Frame) *Set {
	s := &Set{}
	for _, f := range frames {
		s.Insert(f)
	}
	return s
}

// Insert places f at its chronological position. Frames with equal
// timestamps keep their insertion order.
func (s *Set) Insert(f Frame) {
	i := sort.Search(len(s.frames), func(i int) bool {
		return s.frames[i].Timestamp > f.Timestamp
	})
	s.frames = append(s.frames, Frame{})
	copy(s.frames[i+1:], s.frames[i:])
	s.frames[i] = f
}

// Remove deletes the frame with the given id, if present. Remaining
// entries keep their relative order.
func (s *Set) Remove(id string) bool {
	for i, f := range s.frames {
		if f.ID == id {
			s.frames = append(s.frames[:i], s.frames[i+1:]...)
			return true
		}
	}
	return false
}

// Replace discards the current contents wholesale and adopts frames in
// the order given. A selection result keeps its response order here; a
// fresh sampling pass arrives chronologically.
func (s *Set) Replace(frames []Frame) {
	s.frames = append(s.frames[:0:0], frames...)
}

// Frames returns a copy of the ordered contents.
func (s *Set) Frames() []Frame {
	return append([]Frame(nil), s.frames...)
}

// Len reports the number of frames held.
func (s *Set) Len() int { return len(s.frames) }

// At returns the frame at position i.
func (s *Set) At(i int) Frame { return s.frames[i] }
