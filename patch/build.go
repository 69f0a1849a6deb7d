package patch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/native"
	"github.com/cwbudde/algo-webaudio/offline"
)

// Opener opens a file referenced by a buffer-source node.
type Opener func(name string) (io.ReadCloser, error)

type buildConfig struct {
	registry *Registry
	open     Opener
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

// WithRegistry sets the node type registry. The default is DefaultRegistry.
func WithRegistry(r *Registry) BuildOption {
	return func(c *buildConfig) { c.registry = r }
}

// WithOpener sets how referenced files are opened.
func WithOpener(open Opener) BuildOption {
	return func(c *buildConfig) { c.open = open }
}

// WithBaseDir resolves relative file names against dir.
func WithBaseDir(dir string) BuildOption {
	return func(c *buildConfig) {
		c.open = func(name string) (io.ReadCloser, error) {
			if !filepath.IsAbs(name) {
				name = filepath.Join(dir, name)
			}

			return os.Open(name)
		}
	}
}

func openFile(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

// Builder carries the state of one Build call into node factories.
type Builder struct {
	ctx  context.Context
	oc   *offline.Context
	open Opener
}

// Context returns the offline context nodes are created on.
func (b *Builder) Context() *offline.Context { return b.oc }

func (b *Builder) decode(name, format string) (*buffer.AudioBuffer, error) {
	rc, err := b.open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return b.oc.DecodeAudioData(b.ctx, rc, format)
}

// Graph is the set of proxies built from a Patch, keyed by node id.
// The destination is included under DestinationID.
type Graph struct {
	Nodes map[string]offline.AudioNode
}

// Build creates the patch's nodes on oc in declaration order, then makes its
// connections.
func (p *Patch) Build(ctx context.Context, oc *offline.Context, opts ...BuildOption) (*Graph, error) {
	cfg := buildConfig{open: openFile}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.registry == nil {
		cfg.registry = DefaultRegistry()
	}

	b := &Builder{ctx: ctx, oc: oc, open: cfg.open}

	g := &Graph{Nodes: make(map[string]offline.AudioNode, len(p.Nodes)+1)}
	g.Nodes[DestinationID] = oc.Destination()

	for _, n := range p.Nodes {
		factory := cfg.registry.Lookup(n.Type)
		if factory == nil {
			return nil, fmt.Errorf("%w: %q (node %q)", ErrUnknownNodeType, n.Type, n.ID)
		}

		an, err := factory(b, n)
		if err != nil {
			return nil, fmt.Errorf("patch: build %q: %w", n.ID, err)
		}

		applyChannels(an, n)
		g.Nodes[n.ID] = an
	}

	for _, c := range p.Connections {
		from, ok := g.Nodes[c.From]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownNode, c.From)
		}

		to, ok := g.Nodes[c.To]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownNode, c.To)
		}

		_, err := from.ConnectPorts(to, c.FromPort, c.ToPort)
		if err != nil {
			return nil, fmt.Errorf("patch: connect %q -> %q: %w", c.From, c.To, err)
		}
	}

	return g, nil
}

func applyChannels(an offline.AudioNode, p Params) {
	if p.Has("channelCount") {
		an.SetChannelCount(int(p.GetNum("channelCount", 2)))
	}

	if s, ok := p.Str["channelCountMode"]; ok {
		an.SetChannelCountMode(native.ChannelCountMode(s))
	}

	if s, ok := p.Str["channelInterpretation"]; ok {
		an.SetChannelInterpretation(native.ChannelInterpretation(s))
	}
}
