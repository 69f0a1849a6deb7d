package soft

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/exception"
	"github.com/cwbudde/algo-webaudio/native"
)

const testRate = 44100

func newTestContext(t *testing.T, channels, length int, opts ...Option) native.Context {
	t.Helper()

	c, err := New(channels, length, testRate, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return c
}

func startedSource(t *testing.T, c native.Context, samples ...[]float32) native.BufferSourceNode {
	t.Helper()

	buf, err := buffer.FromChannels(testRate, samples...)
	if err != nil {
		t.Fatalf("FromChannels() error = %v", err)
	}

	src, err := c.CreateBufferSource()
	if err != nil {
		t.Fatalf("CreateBufferSource() error = %v", err)
	}

	if err := src.SetBuffer(buf); err != nil {
		t.Fatalf("SetBuffer() error = %v", err)
	}

	if err := src.Start(0, 0, native.PlayToEnd); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	return src
}

func render(t *testing.T, c native.Context) [][]float32 {
	t.Helper()

	out, err := c.StartRendering(context.Background())
	if err != nil {
		t.Fatalf("StartRendering() error = %v", err)
	}

	channels := make([][]float32, out.NumberOfChannels())
	for ch := range channels {
		channels[ch], _ = out.GetChannelData(ch)
	}

	return channels
}

func assertSamples(t *testing.T, got, want []float32) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}

	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Fatalf("sample %d = %v, want %v (got %v)", i, got[i], want[i], got)
		}
	}
}

func TestRenderSilence(t *testing.T) {
	c := newTestContext(t, 2, 8)

	out := render(t, c)
	if len(out) != 2 {
		t.Fatalf("channels = %d, want 2", len(out))
	}

	for ch := range out {
		assertSamples(t, out[ch], make([]float32, 8))
	}
}

func TestRenderGain(t *testing.T) {
	c := newTestContext(t, 1, 4)
	src := startedSource(t, c, []float32{1, 1, 1, 1})

	g, err := c.CreateGain()
	if err != nil {
		t.Fatal(err)
	}

	g.Gain().SetValue(0.5)

	if err := src.Connect(g, 0, 0); err != nil {
		t.Fatal(err)
	}

	if err := g.Connect(c.Destination(), 0, 0); err != nil {
		t.Fatal(err)
	}

	assertSamples(t, render(t, c)[0], []float32{0.5, 0.5, 0.5, 0.5})
}

func TestRenderIIR(t *testing.T) {
	c := newTestContext(t, 1, 4)
	src := startedSource(t, c, []float32{1, 0, 0, 0})

	creator, ok := native.IIRFilterSupport(c)
	if !ok {
		t.Fatal("default context lacks IIR support")
	}

	f, err := creator.CreateIIRFilter([]float64{1}, []float64{1, -0.5})
	if err != nil {
		t.Fatal(err)
	}

	_ = src.Connect(f, 0, 0)
	_ = f.Connect(c.Destination(), 0, 0)

	assertSamples(t, render(t, c)[0], []float32{1, 0.5, 0.25, 0.125})
}

func TestWithoutIIRFilter(t *testing.T) {
	c := newTestContext(t, 1, 4, WithoutIIRFilter())

	if _, ok := native.IIRFilterSupport(c); ok {
		t.Fatal("IIRFilterSupport() = true with WithoutIIRFilter")
	}
}

func TestRenderUpmixesMono(t *testing.T) {
	c := newTestContext(t, 2, 3)
	src := startedSource(t, c, []float32{0.25, 0.5, 0.75})

	_ = src.Connect(c.Destination(), 0, 0)

	out := render(t, c)
	for ch := range out {
		assertSamples(t, out[ch], []float32{0.25, 0.5, 0.75})
	}
}

func TestRenderDownmixes51ToMono(t *testing.T) {
	c := newTestContext(t, 1, 1)
	src := startedSource(t, c, []float32{1}, []float32{1}, []float32{1}, []float32{0.5}, []float32{1}, []float32{1})

	_ = src.Connect(c.Destination(), 0, 0)

	// L and R at sqrt(1/2), C at 1, surrounds at 1/2, LFE dropped.
	want := float32(math.Sqrt2 + 2)
	assertSamples(t, render(t, c)[0], []float32{want})
}

func TestRenderDiamondSums(t *testing.T) {
	c := newTestContext(t, 1, 2)
	src := startedSource(t, c, []float32{1, 1})

	a, _ := c.CreateGain()
	b, _ := c.CreateGain()
	b.Gain().SetValue(2)

	_ = src.Connect(a, 0, 0)
	_ = src.Connect(b, 0, 0)
	_ = a.Connect(c.Destination(), 0, 0)
	_ = b.Connect(c.Destination(), 0, 0)

	assertSamples(t, render(t, c)[0], []float32{3, 3})
}

func TestRenderCycleIsSilent(t *testing.T) {
	c := newTestContext(t, 1, 2)
	src := startedSource(t, c, []float32{1, 1})

	a, _ := c.CreateGain()
	b, _ := c.CreateGain()

	_ = src.Connect(a, 0, 0)
	_ = a.Connect(b, 0, 0)
	_ = b.Connect(a, 0, 0)
	_ = b.Connect(c.Destination(), 0, 0)
	_ = src.Connect(c.Destination(), 0, 0)

	assertSamples(t, render(t, c)[0], []float32{1, 1})
}

func TestBufferSourceScheduling(t *testing.T) {
	c := newTestContext(t, 1, 6)

	buf, _ := buffer.FromChannels(testRate, []float32{1, 2, 3, 4})
	src, _ := c.CreateBufferSource()
	_ = src.SetBuffer(buf)

	if err := src.Start(2.0/testRate, 1.0/testRate, native.PlayToEnd); err != nil {
		t.Fatal(err)
	}

	_ = src.Connect(c.Destination(), 0, 0)

	assertSamples(t, render(t, c)[0], []float32{0, 0, 2, 3, 4, 0})
}

func TestBufferSourceLoopAndStop(t *testing.T) {
	c := newTestContext(t, 1, 6)

	buf, _ := buffer.FromChannels(testRate, []float32{1, 2})
	src, _ := c.CreateBufferSource()
	_ = src.SetBuffer(buf)
	src.SetLoop(true)

	_ = src.Start(0, 0, native.PlayToEnd)
	if err := src.Stop(5.0 / testRate); err != nil {
		t.Fatal(err)
	}

	_ = src.Connect(c.Destination(), 0, 0)

	assertSamples(t, render(t, c)[0], []float32{1, 2, 1, 2, 1, 0})
}

func TestBufferSourceErrors(t *testing.T) {
	c := newTestContext(t, 1, 4)
	src, _ := c.CreateBufferSource()

	if err := src.Stop(0); !errors.Is(err, exception.ErrInvalidState) {
		t.Fatalf("Stop before Start error = %v, want InvalidStateError", err)
	}

	if err := src.Start(-1, 0, native.PlayToEnd); !errors.Is(err, exception.ErrRange) {
		t.Fatalf("Start(-1) error = %v, want RangeError", err)
	}

	if err := src.Start(0, 0, native.PlayToEnd); err != nil {
		t.Fatal(err)
	}

	if err := src.Start(0, 0, native.PlayToEnd); !errors.Is(err, exception.ErrInvalidState) {
		t.Fatalf("second Start error = %v, want InvalidStateError", err)
	}

	buf, _ := c.CreateBuffer(1, 4, testRate)
	_ = src.SetBuffer(buf)

	if err := src.SetBuffer(buf); !errors.Is(err, exception.ErrInvalidState) {
		t.Fatalf("second SetBuffer error = %v, want InvalidStateError", err)
	}
}

func TestConnectErrors(t *testing.T) {
	c := newTestContext(t, 1, 4)
	other := newTestContext(t, 1, 4)

	g, _ := c.CreateGain()
	foreign, _ := other.CreateGain()

	if err := g.Connect(foreign, 0, 0); !errors.Is(err, exception.ErrInvalidAccess) {
		t.Fatalf("cross-context Connect error = %v, want InvalidAccessError", err)
	}

	if err := g.Connect(c.Destination(), 1, 0); !errors.Is(err, exception.ErrIndexSize) {
		t.Fatalf("Connect output 1 error = %v, want IndexSizeError", err)
	}

	if err := g.Connect(c.Destination(), 0, 3); !errors.Is(err, exception.ErrIndexSize) {
		t.Fatalf("Connect input 3 error = %v, want IndexSizeError", err)
	}

	if err := g.Disconnect(c.Destination()); !errors.Is(err, exception.ErrInvalidAccess) {
		t.Fatalf("Disconnect unconnected error = %v, want InvalidAccessError", err)
	}
}

func TestDisconnect(t *testing.T) {
	c := newTestContext(t, 1, 2)
	src := startedSource(t, c, []float32{1, 1})

	_ = src.Connect(c.Destination(), 0, 0)
	if err := src.Disconnect(c.Destination()); err != nil {
		t.Fatal(err)
	}

	assertSamples(t, render(t, c)[0], []float32{0, 0})
}

func TestStartRenderingTwice(t *testing.T) {
	c := newTestContext(t, 1, 2)
	_ = render(t, c)

	_, err := c.StartRendering(context.Background())
	if !errors.Is(err, exception.ErrInvalidState) {
		t.Fatalf("second StartRendering error = %v, want InvalidStateError", err)
	}

	if _, err := c.CreateGain(); !errors.Is(err, ErrNodeClosed) {
		t.Fatalf("CreateGain after render error = %v, want ErrNodeClosed", err)
	}
}

func TestBufferSourceFarTimes(t *testing.T) {
	c := newTestContext(t, 1, 3)
	buf, _ := buffer.FromChannels(testRate, []float32{1, 1, 1})

	long, _ := c.CreateBufferSource()
	_ = long.SetBuffer(buf)

	if err := long.Start(0, 0, 1e20); err != nil {
		t.Fatalf("Start(0, 0, 1e20) error = %v", err)
	}

	late, _ := c.CreateBufferSource()
	_ = late.SetBuffer(buf)

	if err := late.Start(1e20, 0, native.PlayToEnd); err != nil {
		t.Fatalf("Start(1e20) error = %v", err)
	}

	if err := late.Start(0, 0, native.PlayToEnd); !errors.Is(err, exception.ErrInvalidState) {
		t.Fatalf("second Start error = %v, want InvalidStateError", err)
	}

	if err := late.Stop(1e30); err != nil {
		t.Fatalf("Stop(1e30) error = %v", err)
	}

	if err := long.Start(math.NaN(), 0, 0); !errors.Is(err, exception.ErrRange) {
		t.Fatalf("Start(NaN) error = %v, want RangeError", err)
	}

	_ = long.Connect(c.Destination(), 0, 0)
	_ = late.Connect(c.Destination(), 0, 0)

	assertSamples(t, render(t, c)[0], []float32{1, 1, 1})
}

func TestDestinationChannelCountFixed(t *testing.T) {
	c := newTestContext(t, 2, 2)
	d := c.Destination()

	if d.MaxChannelCount() != 2 {
		t.Fatalf("MaxChannelCount() = %d, want 2", d.MaxChannelCount())
	}

	if err := d.SetChannelCount(1); !errors.Is(err, exception.ErrInvalidState) {
		t.Fatalf("SetChannelCount(1) error = %v, want InvalidStateError", err)
	}
}

func TestBiquadDefaultsAndResponse(t *testing.T) {
	c := newTestContext(t, 1, 2)

	b, err := c.CreateBiquadFilter()
	if err != nil {
		t.Fatal(err)
	}

	if b.Type() != "lowpass" || b.Frequency().Value() != 350 || b.Q().Value() != 1 {
		t.Fatalf("defaults = %s %v %v", b.Type(), b.Frequency().Value(), b.Q().Value())
	}

	freqs := []float32{0, 100, 30000}
	mag := make([]float32, 3)
	phase := make([]float32, 3)

	if err := b.GetFrequencyResponse(freqs, mag, phase); err != nil {
		t.Fatal(err)
	}

	if math.Abs(float64(mag[0])-1) > 1e-4 {
		t.Fatalf("DC magnitude = %v, want 1", mag[0])
	}

	if !math.IsNaN(float64(mag[2])) {
		t.Fatalf("magnitude above nyquist = %v, want NaN", mag[2])
	}

	if err := b.GetFrequencyResponse(freqs, mag[:1], phase); !errors.Is(err, exception.ErrInvalidAccess) {
		t.Fatalf("mismatched arrays error = %v, want InvalidAccessError", err)
	}

	if err := b.SetType("bogus"); !errors.Is(err, exception.ErrNotSupported) {
		t.Fatalf("SetType(bogus) error = %v, want NotSupportedError", err)
	}
}

func TestWithMaxChannels(t *testing.T) {
	_, err := New(4, 8, testRate, WithMaxChannels(2))
	if !errors.Is(err, exception.ErrNotSupported) {
		t.Fatalf("New(4) with max 2 error = %v, want NotSupportedError", err)
	}

	if _, err := New(2, 8, testRate, WithMaxChannels(2)); err != nil {
		t.Fatalf("New(2) with max 2 error = %v", err)
	}
}
