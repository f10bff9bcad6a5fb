// Package window holds fixed-length rolling windows of numeric samples that back trend charts.
package window

// Rolling is a fixed-length FIFO of samples. Push drops the oldest sample at
// the head and appends the new one at the tail, so Len never changes after construction.
//
// Rolling is not safe for concurrent use; the generator owning it guards access.
type Rolling struct {
	values []float64
}

// New returns a window of length n with every slot set to seed.
func New(n int, seed float64) *Rolling {
	if n <= 0 {
		panic("window: length must be positive")
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = seed
	}
	return &Rolling{values: values}
}

// FromValues returns a window seeded with a copy of values.
func FromValues(values []float64) *Rolling {
	if len(values) == 0 {
		panic("window: no seed values")
	}
	return &Rolling{values: append([]float64(nil), values...)}
}

func (r *Rolling) Push(v float64) {
	copy(r.values, r.values[1:])
	r.values[len(r.values)-1] = v
}

func (r *Rolling) Len() int {
	return len(r.values)
}

// Last returns the most recent sample.
func (r *Rolling) Last() float64 {
	return r.values[len(r.values)-1]
}

// Values returns a copy of the samples, oldest first.
func (r *Rolling) Values() []float64 {
	return append([]float64(nil), r.values...)
}
