package design

import (
	"math"
	"math/cmplx"
	"testing"
)

const sr = 48000.0

func magDB(t Type, p Params, freq float64) float64 {
	c := Compute(t, p, sr)
	return 20 * math.Log10(cmplx.Abs(c.Response(freq, sr)))
}

func TestLowpassHighpass(t *testing.T) {
	p := Params{Frequency: 1000, Q: 0}

	if g := magDB(Lowpass, p, 1); math.Abs(g) > 0.01 {
		t.Errorf("lowpass DC = %.3f dB, want 0", g)
	}

	if g := magDB(Lowpass, p, 20000); g > -30 {
		t.Errorf("lowpass 20 kHz = %.3f dB, want < -30", g)
	}

	if g := magDB(Highpass, p, 20000); math.Abs(g) > 0.1 {
		t.Errorf("highpass 20 kHz = %.3f dB, want 0", g)
	}

	// Q is in dB for lowpass: Q = 0 dB gives unity gain at the cutoff.
	if g := magDB(Lowpass, p, 1000); math.Abs(g) > 0.01 {
		t.Errorf("lowpass cutoff with Q=0dB = %.3f dB, want 0", g)
	}
}

func TestPeakingGainAtCenter(t *testing.T) {
	g := magDB(Peaking, Params{Frequency: 2000, Q: 2, Gain: 6}, 2000)
	if math.Abs(g-6) > 1e-6 {
		t.Fatalf("peaking center = %.6f dB, want 6", g)
	}
}

func TestShelves(t *testing.T) {
	low := magDB(Lowshelf, Params{Frequency: 500, Gain: 12}, 1)
	if math.Abs(low-12) > 0.05 {
		t.Errorf("lowshelf DC = %.3f dB, want 12", low)
	}

	high := magDB(Highshelf, Params{Frequency: 500, Gain: -9}, 23999)
	if math.Abs(high+9) > 0.05 {
		t.Errorf("highshelf near Nyquist = %.3f dB, want -9", high)
	}

	// Half the shelf gain at the corner frequency.
	mid := magDB(Lowshelf, Params{Frequency: 500, Gain: 12}, 500)
	if math.Abs(mid-6) > 0.05 {
		t.Errorf("lowshelf corner = %.3f dB, want 6", mid)
	}
}

func TestNotchAllpassBandpass(t *testing.T) {
	p := Params{Frequency: 3000, Q: 4}

	c := Compute(Notch, p, sr)
	if m := cmplx.Abs(c.Response(3000, sr)); m > 1e-9 {
		t.Errorf("notch at center = %v, want 0", m)
	}

	c = Compute(Allpass, p, sr)
	for _, f := range []float64{10, 3000, 15000} {
		if m := cmplx.Abs(c.Response(f, sr)); math.Abs(m-1) > 1e-9 {
			t.Errorf("allpass |H(%v)| = %v, want 1", f, m)
		}
	}

	c = Compute(Bandpass, p, sr)
	if m := cmplx.Abs(c.Response(3000, sr)); math.Abs(m-1) > 1e-9 {
		t.Errorf("bandpass at center = %v, want 1", m)
	}
}

func TestDetuneShiftsFrequency(t *testing.T) {
	a := Compute(Lowpass, Params{Frequency: 1000, Q: 1}, sr)
	b := Compute(Lowpass, Params{Frequency: 500, Detune: 1200, Q: 1}, sr)

	if math.Abs(a.B0-b.B0) > 1e-12 || math.Abs(a.A1-b.A1) > 1e-12 {
		t.Fatalf("detune +1200 cents differs from doubling frequency: %+v vs %+v", a, b)
	}
}

func TestEdgeFrequencies(t *testing.T) {
	if c := Compute(Lowpass, Params{Frequency: 30000, Q: 1}, sr); c.B0 != 1 || c.B1 != 0 {
		t.Errorf("lowpass above Nyquist = %+v, want passthrough", c)
	}

	if c := Compute(Lowpass, Params{Frequency: 0, Q: 1}, sr); c.B0 != 0 {
		t.Errorf("lowpass at 0 Hz = %+v, want silence", c)
	}

	if c := Compute(Highpass, Params{Frequency: 0, Q: 1}, sr); c.B0 != 1 {
		t.Errorf("highpass at 0 Hz = %+v, want passthrough", c)
	}
}

func TestParseType(t *testing.T) {
	for _, typ := range Types {
		got, err := ParseType(string(typ))
		if err != nil || got != typ {
			t.Errorf("ParseType(%q) = %q, %v", typ, got, err)
		}
	}

	if _, err := ParseType("bandstop"); err == nil {
		t.Error("ParseType accepted unknown type")
	}
}
