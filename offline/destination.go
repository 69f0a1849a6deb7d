package offline

import (
	"context"

	"github.com/cwbudde/algo-webaudio/native"
)

// DestinationNode is the final node of a Context's graph. Its input is the
// rendered result.
type DestinationNode struct {
	node
	faker *destinationFaker
}

type destinationFaker struct {
	fakeNode
	proxy *DestinationNode
}

func (c *Context) newDestination() *DestinationNode {
	d := &DestinationNode{node: newNode(c, 1, 0, channelConfig{
		count:  c.numberOfChannels,
		mode:   native.Explicit,
		interp: native.Speakers,
	})}
	d.faker = &destinationFaker{proxy: d}
	d.faker.init("destination", d, c.log, d.faker.materialize)
	c.store.add(&d.node, d.faker)

	return d
}

// MaxChannelCount returns the channel count of the rendered buffer.
func (d *DestinationNode) MaxChannelCount() int {
	return d.ctx.numberOfChannels
}

// materialize uses the destination the native context already has. Channel
// settings made on the proxy are applied to it, so an engine with a fixed
// destination channel count rejects a different one here.
func (f *destinationFaker) materialize(ctx context.Context, nc native.Context, publish func(native.Node)) (native.Node, error) {
	n := nc.Destination()

	err := applyChannels(n, f.proxy.channelConfig())
	if err != nil {
		return nil, err
	}

	publish(n)

	err = f.renderInputs(ctx, nc, n)
	if err != nil {
		return nil, err
	}

	return n, nil
}
