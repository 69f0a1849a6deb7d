package soft

import (
	"sync"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/exception"
	"github.com/cwbudde/algo-webaudio/native"
)

// processor is the per-kind rendering contract. process receives the mixed
// input (nil for source nodes) and returns the node's output channels.
type processor interface {
	attach(n *node)
	base() *node
	process(c *Context, in [][]float64) [][]float64
}

type edge struct {
	from   *node
	output int
	input  int
}

// node holds the graph and channel state shared by every soft node. All
// fields are guarded by ctx.mu.
type node struct {
	ctx  *Context
	id   int
	proc processor

	inputs, outputs int

	channelCount int
	mode         native.ChannelCountMode
	interp       native.ChannelInterpretation

	incoming []edge
}

func (n *node) attach(m *node) {
	*n = *m
	n.ctx.nodes[n.id] = n
}

func (n *node) base() *node { return n }

// Connect routes output of n into input of destination. The destination must
// belong to the same context.
func (n *node) Connect(destination native.Node, output, input int) error {
	d, ok := destination.(interface{ base() *node })
	if !ok || d.base().ctx != n.ctx {
		return exception.InvalidAccess("destination belongs to another context")
	}

	dst := d.base()

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	if n.ctx.rendered {
		return ErrNodeClosed
	}

	if output < 0 || output >= n.outputs {
		return exception.IndexSize("output %d outside [0, %d)", output, n.outputs)
	}

	if input < 0 || input >= dst.inputs {
		return exception.IndexSize("input %d outside [0, %d)", input, dst.inputs)
	}

	e := edge{from: n, output: output, input: input}
	for _, existing := range dst.incoming {
		if existing == e {
			return nil
		}
	}

	dst.incoming = append(dst.incoming, e)

	return nil
}

// Disconnect removes every connection from n to destination. It fails with
// InvalidAccessError when there is none.
func (n *node) Disconnect(destination native.Node) error {
	d, ok := destination.(interface{ base() *node })
	if !ok || d.base().ctx != n.ctx {
		return exception.InvalidAccess("destination belongs to another context")
	}

	dst := d.base()

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	kept := dst.incoming[:0]
	for _, e := range dst.incoming {
		if e.from != n {
			kept = append(kept, e)
		}
	}

	removed := len(dst.incoming) - len(kept)
	dst.incoming = kept

	if removed == 0 {
		return exception.InvalidAccess("node is not connected to destination")
	}

	return nil
}

func (n *node) NumberOfInputs() int  { return n.inputs }
func (n *node) NumberOfOutputs() int { return n.outputs }

func (n *node) ChannelCount() int {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	return n.channelCount
}

func (n *node) SetChannelCount(count int) error {
	if count < 1 || count > buffer.MaxChannels {
		return exception.NotSupported("channel count %d outside [1, %d]", count, buffer.MaxChannels)
	}

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	n.channelCount = count

	return nil
}

func (n *node) ChannelCountMode() native.ChannelCountMode {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	return n.mode
}

func (n *node) SetChannelCountMode(m native.ChannelCountMode) error {
	switch m {
	case native.Max, native.ClampedMax, native.Explicit:
	default:
		return exception.NotSupported("unknown channel count mode %q", m)
	}

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	n.mode = m

	return nil
}

func (n *node) ChannelInterpretation() native.ChannelInterpretation {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	return n.interp
}

func (n *node) SetChannelInterpretation(i native.ChannelInterpretation) error {
	switch i {
	case native.Speakers, native.Discrete:
	default:
		return exception.NotSupported("unknown channel interpretation %q", i)
	}

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	n.interp = i

	return nil
}

// param is an AudioParam holding only its intrinsic value.
type param struct {
	mu    sync.Mutex
	value float64
}

func newParam(v float64) *param {
	return &param{value: v}
}

func (p *param) Value() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.value
}

func (p *param) SetValue(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.value = v
}
