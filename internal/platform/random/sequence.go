package random

// Sequence is a scripted Source that replays fixed values in order.
// It cycles once exhausted. Intn maps the next value onto [0, n).
type Sequence struct {
	values []float64
	pos    int
}

// NewSequence returns a Source replaying values. Values must be in [0, 1).
func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &Sequence{values: values}
}

// Float64 returns the next scripted value.
func (s *Sequence) Float64() float64 {
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

// Intn scales the next scripted value onto [0, n).
func (s *Sequence) Intn(n int) int {
	v := int(s.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// Draws returns how many values have been consumed.
func (s *Sequence) Draws() int {
	return s.pos
}
