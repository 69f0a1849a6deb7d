package offline

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-webaudio/dsp/filter/design"
	"github.com/cwbudde/algo-webaudio/exception"
	"github.com/cwbudde/algo-webaudio/internal/testutil"
	"github.com/cwbudde/algo-webaudio/native"
)

func TestBiquadDefaults(t *testing.T) {
	c := newContext(t, 1, 2)
	b := c.CreateBiquadFilter()

	if b.Type() != design.Lowpass {
		t.Fatalf("Type() = %q, want lowpass", b.Type())
	}

	if b.Frequency().Value() != 350 || b.Q().Value() != 1 || b.Gain().Value() != 0 || b.Detune().Value() != 0 {
		t.Fatalf("defaults = %v %v %v %v", b.Frequency().Value(), b.Q().Value(), b.Gain().Value(), b.Detune().Value())
	}

	if b.Frequency().MaxValue() != testRate/2 {
		t.Fatalf("frequency max = %v, want nyquist", b.Frequency().MaxValue())
	}

	if err := b.SetType("bandstop"); !errors.Is(err, exception.ErrNotSupported) {
		t.Fatalf("SetType(bandstop) error = %v, want NotSupportedError", err)
	}
}

func TestBiquadFrequencyResponse(t *testing.T) {
	c := newContext(t, 1, 2)
	b := c.CreateBiquadFilter()
	b.Frequency().SetValue(1000)

	freqs := []float32{0, 1000, 20000, 40000}
	mag := make([]float32, len(freqs))
	phase := make([]float32, len(freqs))

	if err := b.GetFrequencyResponse(freqs, mag, phase); err != nil {
		t.Fatal(err)
	}

	if math.Abs(float64(mag[0])-1) > 1e-5 {
		t.Fatalf("DC magnitude = %v, want 1", mag[0])
	}

	if mag[2] >= mag[1] {
		t.Fatalf("lowpass magnitude rises: %v", mag)
	}

	if !math.IsNaN(float64(mag[3])) || !math.IsNaN(float64(phase[3])) {
		t.Fatalf("response above nyquist = %v, %v, want NaN", mag[3], phase[3])
	}

	err := b.GetFrequencyResponse(freqs, mag[:2], phase)
	if !errors.Is(err, exception.ErrInvalidAccess) {
		t.Fatalf("mismatched arrays error = %v, want InvalidAccessError", err)
	}
}

func TestBiquadRenders(t *testing.T) {
	c := newContext(t, 1, 1024)
	src := playing(t, c, testutil.Ones(1024))

	b := c.CreateBiquadFilter()
	if err := b.SetType(design.Highpass); err != nil {
		t.Fatal(err)
	}

	connect(t, src, b)
	connect(t, b, c.Destination())

	out := renderChannel(t, c, 0)

	// A step through a highpass starts near 1 and decays towards 0.
	if out[0] < 0.9 || math.Abs(float64(out[1023])) > 0.01 {
		t.Fatalf("highpass step response = %v ... %v", out[0], out[1023])
	}
}

func TestBufferSourceScheduling(t *testing.T) {
	c := newContext(t, 1, 6)

	src := c.CreateBufferSource()
	_ = src.SetBuffer(testutil.Buffer(t, testRate, []float32{1, 2, 3, 4}))
	src.SetLoop(true)

	if err := src.Start(1.0/testRate, 0, PlayToEnd); err != nil {
		t.Fatal(err)
	}

	if err := src.Stop(5.0 / testRate); err != nil {
		t.Fatal(err)
	}

	connect(t, src, c.Destination())

	testutil.RequireNearlyEqual(t, renderChannel(t, c, 0), []float32{0, 1, 2, 3, 4, 0}, 0)
}

func TestBufferSourceErrors(t *testing.T) {
	c := newContext(t, 1, 2)
	src := c.CreateBufferSource()

	if err := src.Stop(0); !errors.Is(err, exception.ErrInvalidState) {
		t.Fatalf("Stop before Start error = %v, want InvalidStateError", err)
	}

	for _, args := range [][3]float64{{-1, 0, 1}, {0, -1, 1}, {0, 0, -1}, {math.NaN(), 0, 0}} {
		if err := src.Start(args[0], args[1], args[2]); !errors.Is(err, exception.ErrRange) {
			t.Fatalf("Start%v error = %v, want RangeError", args, err)
		}
	}

	if err := src.Start(0, 0, PlayToEnd); err != nil {
		t.Fatal(err)
	}

	if err := src.Start(0, 0, PlayToEnd); !errors.Is(err, exception.ErrInvalidState) {
		t.Fatalf("second Start error = %v, want InvalidStateError", err)
	}

	if err := src.Stop(-1); !errors.Is(err, exception.ErrRange) {
		t.Fatalf("Stop(-1) error = %v, want RangeError", err)
	}

	buf, _ := c.CreateBuffer(1, 2, testRate)
	if err := src.SetBuffer(buf); err != nil {
		t.Fatal(err)
	}

	if err := src.SetBuffer(buf); !errors.Is(err, exception.ErrInvalidState) {
		t.Fatalf("second SetBuffer error = %v, want InvalidStateError", err)
	}

	if err := src.SetBuffer(nil); err != nil {
		t.Fatalf("SetBuffer(nil) error = %v", err)
	}

	if src.Buffer() != nil {
		t.Fatal("Buffer() not cleared")
	}
}

func TestUnstartedSourceIsSilent(t *testing.T) {
	c := newContext(t, 1, 2)
	src := c.CreateBufferSource()
	_ = src.SetBuffer(testutil.Buffer(t, testRate, testutil.Ones(2)))

	connect(t, src, c.Destination())

	testutil.RequireNearlyEqual(t, renderChannel(t, c, 0), make([]float32, 2), 0)
}

func TestParamAutomationIsIgnored(t *testing.T) {
	c := newContext(t, 1, 2)
	g := c.CreateGain()

	g.Gain().
		SetValueAtTime(0, 0).
		LinearRampToValueAtTime(4, 1).
		ExponentialRampToValueAtTime(2, 2).
		SetTargetAtTime(3, 0, 0.1).
		CancelScheduledValues(0)

	if g.Gain().Value() != 1 || g.Gain().DefaultValue() != 1 {
		t.Fatalf("gain = %v (default %v), want 1", g.Gain().Value(), g.Gain().DefaultValue())
	}
}

func TestParamForwardsAfterRender(t *testing.T) {
	c := newContext(t, 1, 2)
	g := c.CreateGain()
	connect(t, g, c.Destination())

	_ = renderChannel(t, c, 0)

	g.Gain().SetValue(0.25)

	g.faker.mu.Lock()
	defer g.faker.mu.Unlock()

	if len(g.faker.states) != 1 {
		t.Fatalf("gain rendered on %d contexts, want 1", len(g.faker.states))
	}

	for _, st := range g.faker.states {
		n, ok := st.node.(native.GainNode)
		if !ok {
			t.Fatalf("native node %T is not a gain node", st.node)
		}

		if n.Gain().Value() != 0.25 {
			t.Fatalf("native gain = %v, want 0.25", n.Gain().Value())
		}
	}
}
