// Package offline renders Web Audio graphs on native engines that lack node
// kinds or misbehave.
//
// Application code builds a graph of node proxies on a [Context]. Every proxy
// is paired with a faker that records the proxy's incoming connections and
// knows how to materialize a real node on a native offline context. The
// pairs are joined through a per-context store, which is also how a
// connection to a node of another context is told apart and rejected.
//
// [Context.StartRendering] creates a native context and asks the
// destination's faker to render. Each faker renders its upstream fakers
// first, concurrently and at most once per native context, then connects the
// resulting native nodes to its own. When the native engine has no IIR
// filter, an [IIRFilterNode] renders its inputs into a nested native context,
// filters the result with the difference equation and plays it back through
// a buffer source in the outer context.
//
// Basic usage:
//
//	c, _ := offline.New(1, 44100, 44100)
//	src := c.CreateBufferSource()
//	_ = src.SetBuffer(buf)
//	_ = src.Start(0, 0, offline.PlayToEnd)
//	lp, _ := c.CreateIIRFilter([]float64{0.1}, []float64{1, -0.9})
//	_, _ = src.Connect(lp)
//	_, _ = lp.Connect(c.Destination())
//	out, err := c.StartRendering(ctx)
package offline
