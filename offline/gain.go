package offline

import (
	"context"

	"github.com/cwbudde/algo-webaudio/native"
)

// GainNode scales its input by the gain parameter.
type GainNode struct {
	node
	faker *gainFaker
}

type gainFaker struct {
	fakeNode
	proxy *GainNode
	gain  *Param
}

// CreateGain creates a GainNode with gain 1.
func (c *Context) CreateGain() *GainNode {
	g := &GainNode{node: newNode(c, 1, 1, defaultChannels())}
	g.faker = &gainFaker{proxy: g, gain: newParam(1, mostNegative, mostPositive)}
	g.faker.init("gain", g, c.log, g.faker.materialize)
	c.store.add(&g.node, g.faker)

	return g
}

func (g *GainNode) Gain() *Param { return g.faker.gain }

func (f *gainFaker) materialize(ctx context.Context, nc native.Context, publish func(native.Node)) (native.Node, error) {
	n, err := nc.CreateGain()
	if err != nil {
		return nil, err
	}

	err = applyChannels(n, f.proxy.channelConfig())
	if err != nil {
		return nil, err
	}

	f.gain.bind(n.Gain())
	publish(n)

	err = f.renderInputs(ctx, nc, n)
	if err != nil {
		return nil, err
	}

	return n, nil
}
