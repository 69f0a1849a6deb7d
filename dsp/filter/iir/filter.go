package iir

// ringSize is the length of each delay line. It must be a power of two and
// larger than MaxCoefficients.
const (
	ringSize = 32
	ringMask = ringSize - 1
)

// State is the per-channel delay-line state of a Filter.
type State struct {
	x     [ringSize]float64
	y     [ringSize]float64
	index int
}

// Reset clears the delay lines.
func (s *State) Reset() {
	*s = State{}
}

// Filter runs the difference equation for normalized coefficients.
type Filter struct {
	b []float64
	a []float64
}

// NewFilter returns a Filter for c. The coefficients are normalized into a
// private copy.
func NewFilter(c Coefficients) (*Filter, error) {
	err := Validate(c.Feedforward, c.Feedback)
	if err != nil {
		return nil, err
	}

	n := c.Normalized()

	return &Filter{b: n.Feedforward, a: n.Feedback}, nil
}

// Coefficients returns the normalized coefficients used by the filter.
func (f *Filter) Coefficients() Coefficients {
	return Coefficients{
		Feedforward: append([]float64(nil), f.b...),
		Feedback:    append([]float64(nil), f.a...),
	}
}

// ProcessSample filters one sample, advancing st.
func (f *Filter) ProcessSample(st *State, x float64) float64 {
	b, a := f.b, f.a
	idx := st.index

	y := b[0] * x

	common := min(len(b), len(a))

	k := 1
	for ; k < common; k++ {
		j := (idx - k) & ringMask
		y += b[k]*st.x[j] - a[k]*st.y[j]
	}

	for ; k < len(b); k++ {
		y += b[k] * st.x[(idx-k)&ringMask]
	}

	for k = common; k < len(a); k++ {
		y -= a[k] * st.y[(idx-k)&ringMask]
	}

	st.x[idx] = x
	st.y[idx] = y
	st.index = (idx + 1) & ringMask

	return y
}

// ProcessBlockTo filters src into dst using st. Both slices must have the
// same length; dst may alias src.
func (f *Filter) ProcessBlockTo(st *State, dst, src []float32) {
	_ = dst[len(src)-1]

	for i, x := range src {
		dst[i] = float32(f.ProcessSample(st, float64(x)))
	}
}

// Apply filters every channel independently from a zeroed state and returns
// the filtered channels. The input is not modified.
func (f *Filter) Apply(channels [][]float32) [][]float32 {
	out := make([][]float32, len(channels))

	var st State

	for ch, src := range channels {
		st.Reset()

		out[ch] = make([]float32, len(src))
		if len(src) > 0 {
			f.ProcessBlockTo(&st, out[ch], src)
		}
	}

	return out
}
