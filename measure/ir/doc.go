// Package ir measures offline audio graphs by their impulse response.
//
// Capture renders a unit impulse through a subgraph built on a fresh
// offline context, and Response evaluates the captured response at chosen
// frequencies from a zero-padded FFT. Comparing the result with a node's
// GetFrequencyResponse checks that the rendered filter, native or emulated,
// matches its analytic transfer function.
//
// # Usage
//
//	h, err := ir.Capture(ctx, 48000, 4096, func(c *offline.Context, in offline.AudioNode) (offline.AudioNode, error) {
//		f, err := c.CreateIIRFilter(ff, fb)
//		if err != nil {
//			return nil, err
//		}
//		_, err = in.Connect(f)
//		return f, err
//	})
//	mag, phase, err := ir.Response(h, 48000, []float64{100, 1000, 10000})
package ir
