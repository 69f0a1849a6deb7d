package offline

import (
	"context"
	"math"

	"github.com/cwbudde/algo-webaudio/dsp/filter/design"
	"github.com/cwbudde/algo-webaudio/exception"
	"github.com/cwbudde/algo-webaudio/native"
)

// BiquadFilterNode is a second-order filter of one of the design.Types.
type BiquadFilterNode struct {
	node
	faker *biquadFaker
}

type biquadFaker struct {
	fakeNode
	proxy *BiquadFilterNode

	sampleRate float64
	frequency  *Param
	detune     *Param
	q          *Param
	gain       *Param

	// guarded by fakeNode.mu
	typ     design.Type
	natives []native.BiquadFilterNode
}

// maxDetune is 1200·log2(FLT_MAX), the detune at which the computed
// frequency overflows.
var maxDetune = 1200 * math.Log2(math.MaxFloat32)

// CreateBiquadFilter creates a lowpass BiquadFilterNode with the default
// parameters.
func (c *Context) CreateBiquadFilter() *BiquadFilterNode {
	p := design.DefaultParams()

	b := &BiquadFilterNode{node: newNode(c, 1, 1, defaultChannels())}
	b.faker = &biquadFaker{
		proxy:      b,
		sampleRate: c.sampleRate,
		frequency:  newParam(p.Frequency, 0, c.sampleRate/2),
		detune:     newParam(p.Detune, -maxDetune, maxDetune),
		q:          newParam(p.Q, mostNegative, mostPositive),
		gain:       newParam(p.Gain, mostNegative, 40*math.Log10(math.MaxFloat32)),
		typ:        design.Lowpass,
	}
	b.faker.init("biquad", b, c.log, b.faker.materialize)
	c.store.add(&b.node, b.faker)

	return b
}

func (b *BiquadFilterNode) Type() design.Type {
	b.faker.mu.Lock()
	defer b.faker.mu.Unlock()

	return b.faker.typ
}

// SetType fails with NotSupportedError for an unknown type.
func (b *BiquadFilterNode) SetType(t design.Type) error {
	_, err := design.ParseType(string(t))
	if err != nil {
		return exception.NotSupported("%v", err)
	}

	b.faker.mu.Lock()
	defer b.faker.mu.Unlock()

	b.faker.typ = t
	for _, n := range b.faker.natives {
		err := n.SetType(t)
		if err != nil {
			return err
		}
	}

	return nil
}

func (b *BiquadFilterNode) Frequency() *Param { return b.faker.frequency }
func (b *BiquadFilterNode) Detune() *Param    { return b.faker.detune }
func (b *BiquadFilterNode) Q() *Param         { return b.faker.q }
func (b *BiquadFilterNode) Gain() *Param      { return b.faker.gain }

// GetFrequencyResponse computes the magnitude and phase response at each
// frequency. Frequencies outside [0, sampleRate/2] yield NaN. It fails with
// InvalidAccessError when the three slices differ in length.
func (b *BiquadFilterNode) GetFrequencyResponse(frequencyHz, magResponse, phaseResponse []float32) error {
	if len(magResponse) != len(frequencyHz) || len(phaseResponse) != len(frequencyHz) {
		return exception.InvalidAccess("response arrays have lengths %d and %d, want %d",
			len(magResponse), len(phaseResponse), len(frequencyHz))
	}

	b.faker.mu.Lock()
	typ := b.faker.typ

	var rendered native.BiquadFilterNode
	if len(b.faker.natives) > 0 {
		rendered = b.faker.natives[0]
	}
	b.faker.mu.Unlock()

	if rendered != nil {
		return rendered.GetFrequencyResponse(frequencyHz, magResponse, phaseResponse)
	}

	c := design.Compute(typ, design.Params{
		Frequency: b.faker.frequency.Value(),
		Detune:    b.faker.detune.Value(),
		Q:         b.faker.q.Value(),
		Gain:      b.faker.gain.Value(),
	}, b.faker.sampleRate)
	c.FrequencyResponse(frequencyHz, b.faker.sampleRate, magResponse, phaseResponse)

	return nil
}

func (f *biquadFaker) materialize(ctx context.Context, nc native.Context, publish func(native.Node)) (native.Node, error) {
	n, err := nc.CreateBiquadFilter()
	if err != nil {
		return nil, err
	}

	err = applyChannels(n, f.proxy.channelConfig())
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	err = n.SetType(f.typ)
	if err == nil {
		f.natives = append(f.natives, n)
	}
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	f.frequency.bind(n.Frequency())
	f.detune.bind(n.Detune())
	f.q.bind(n.Q())
	f.gain.bind(n.Gain())
	publish(n)

	err = f.renderInputs(ctx, nc, n)
	if err != nil {
		return nil, err
	}

	return n, nil
}
