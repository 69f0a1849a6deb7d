package offline

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-webaudio/exception"
	"github.com/cwbudde/algo-webaudio/native"
)

// faker is the rendering side of a node proxy.
type faker interface {
	// wire records a connection from src into this node and returns the
	// node's proxy.
	wire(src faker, output, input int) AudioNode
	// unwire removes every connection from src into this node.
	unwire(src faker)
	// render materializes the node on nc, at most once per native context.
	render(ctx context.Context, nc native.Context) (native.Node, error)
}

// edge is one recorded connection into a faker.
type edge struct {
	src    faker
	output int
	input  int
}

// materializeFunc creates the native node of a faker on nc. Kinds whose
// native node exists before its inputs are rendered pass it to publish so
// that renders reaching the node again through a cycle can use it.
type materializeFunc func(ctx context.Context, nc native.Context, publish func(native.Node)) (native.Node, error)

// renderState is the outcome of rendering a faker on one native context.
// A failed render keeps its error; fakers are not rendered again on the same
// native context.
type renderState struct {
	done chan struct{}
	node native.Node
	err  error
}

// fakeNode holds the wiring table and the per-context render states of a
// faker. Kinds embed it and supply materialize.
type fakeNode struct {
	kind        string
	self        AudioNode
	log         *zap.Logger
	materialize materializeFunc

	mu     sync.Mutex
	edges  []edge
	states map[native.Context]*renderState
}

func (f *fakeNode) init(kind string, self AudioNode, log *zap.Logger, materialize materializeFunc) {
	f.kind = kind
	f.self = self
	f.log = log
	f.materialize = materialize
	f.states = make(map[native.Context]*renderState)
}

func (f *fakeNode) wire(src faker, output, input int) AudioNode {
	f.mu.Lock()
	defer f.mu.Unlock()

	e := edge{src: src, output: output, input: input}
	if !slices.Contains(f.edges, e) {
		f.edges = append(f.edges, e)
	}

	return f.self
}

func (f *fakeNode) unwire(src faker) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.edges = slices.DeleteFunc(f.edges, func(e edge) bool { return e.src == src })
}

func (f *fakeNode) render(ctx context.Context, nc native.Context) (native.Node, error) {
	f.mu.Lock()

	st, ok := f.states[nc]
	if ok {
		published := st.node
		f.mu.Unlock()

		if published != nil {
			return published, nil
		}

		return f.await(ctx, st)
	}

	st = &renderState{done: make(chan struct{})}
	f.states[nc] = st
	f.mu.Unlock()

	n, err := f.materialize(ctx, nc, func(n native.Node) {
		f.mu.Lock()
		defer f.mu.Unlock()

		st.node = n
	})

	f.mu.Lock()
	if err != nil {
		st.node, st.err = nil, err
	} else {
		st.node = n
	}
	f.mu.Unlock()
	close(st.done)

	if err != nil {
		return nil, err
	}

	f.log.Debug("materialized node",
		zap.String("kind", f.kind),
		zap.String("native", fmt.Sprintf("%p", nc)))

	return n, nil
}

// await waits for a render started by another caller.
func (f *fakeNode) await(ctx context.Context, st *renderState) (native.Node, error) {
	if onPath(ctx, f) {
		return nil, exception.InvalidState("%s node depends on its own output", f.kind)
	}

	select {
	case <-st.done:
		return st.node, st.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// renderInputs renders every upstream faker on nc concurrently, then
// connects each result to target at the recorded ports.
func (f *fakeNode) renderInputs(ctx context.Context, nc native.Context, target native.Node) error {
	f.mu.Lock()
	edges := slices.Clone(f.edges)
	f.mu.Unlock()

	if len(edges) == 0 {
		return nil
	}

	sources := make([]native.Node, len(edges))

	g, gctx := errgroup.WithContext(ctx)
	for i, e := range edges {
		g.Go(func() error {
			n, err := e.src.render(gctx, nc)
			if err != nil {
				return err
			}

			sources[i] = n

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return err
	}

	for i, e := range edges {
		err := sources[i].Connect(target, e.output, e.input)
		if err != nil {
			return fmt.Errorf("offline: connect into %s node: %w", f.kind, err)
		}
	}

	return nil
}

type pathKey struct{}

// withPath records f as being rendered by the calling goroutine chain.
func withPath(ctx context.Context, f *fakeNode) context.Context {
	path, _ := ctx.Value(pathKey{}).([]*fakeNode)

	return context.WithValue(ctx, pathKey{}, append(slices.Clip(path), f))
}

func onPath(ctx context.Context, f *fakeNode) bool {
	path, _ := ctx.Value(pathKey{}).([]*fakeNode)

	return slices.Contains(path, f)
}

func applyChannels(n native.Node, cfg channelConfig) error {
	err := n.SetChannelCount(cfg.count)
	if err != nil {
		return err
	}

	err = n.SetChannelCountMode(cfg.mode)
	if err != nil {
		return err
	}

	return n.SetChannelInterpretation(cfg.interp)
}
