package soft

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-webaudio/native"
)

// computedChannels returns the channel count a node mixes its input to.
func computedChannels(n *node, maxInput int) int {
	if maxInput < 1 {
		maxInput = 1
	}

	switch n.mode {
	case native.ClampedMax:
		return min(maxInput, n.channelCount)
	case native.Explicit:
		return n.channelCount
	default:
		return maxInput
	}
}

// mixInputs sums every connected, rendered source of n into a new block of
// the node's computed channel count.
func (c *Context) mixInputs(n *node, outputs map[*node][][]float64) [][]float64 {
	var sources [][][]float64

	maxInput := 0

	for _, e := range n.incoming {
		out := outputs[e.from]
		if out == nil {
			continue
		}

		sources = append(sources, out)
		maxInput = max(maxInput, len(out))
	}

	channels := computedChannels(n, maxInput)
	acc := silence(channels, c.length)

	for _, src := range sources {
		mixInto(acc, src, n.interp)
	}

	return acc
}

func silence(channels, length int) [][]float64 {
	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = make([]float64, length)
	}

	return out
}

// addScaled accumulates k*src into dst.
func addScaled(dst, src []float64, k float64) {
	if k == 1 {
		vecmath.AddBlockInPlace(dst, src)
		return
	}

	tmp := make([]float64, len(src))
	vecmath.ScaleBlock(tmp, src, k)
	vecmath.AddBlockInPlace(dst, tmp)
}

// mixInto up- or down-mixes src and accumulates it into dst.
func mixInto(dst, src [][]float64, interp native.ChannelInterpretation) {
	from, to := len(src), len(dst)

	if from == to || interp == native.Discrete || !speakerMix(dst, src) {
		for ch := range min(from, to) {
			addScaled(dst[ch], src[ch], 1)
		}
	}
}

// speakerMix applies the speaker layout rules for mono, stereo, quad and
// 5.1. It reports false when no rule applies.
func speakerMix(dst, src [][]float64) bool {
	const (
		l, r, c, sl, sr = 0, 1, 2, 4, 5
		qsl, qsr        = 2, 3
	)

	h := 1 / math.Sqrt2

	switch from, to := len(src), len(dst); {
	case from == 1 && (to == 2 || to == 4):
		addScaled(dst[l], src[0], 1)
		addScaled(dst[r], src[0], 1)
	case from == 1 && to == 6:
		addScaled(dst[c], src[0], 1)
	case from == 2 && to == 1:
		addScaled(dst[0], src[l], 0.5)
		addScaled(dst[0], src[r], 0.5)
	case from == 2 && (to == 4 || to == 6):
		addScaled(dst[l], src[l], 1)
		addScaled(dst[r], src[r], 1)
	case from == 4 && to == 1:
		for ch := range 4 {
			addScaled(dst[0], src[ch], 0.25)
		}
	case from == 4 && to == 2:
		addScaled(dst[l], src[l], 0.5)
		addScaled(dst[l], src[qsl], 0.5)
		addScaled(dst[r], src[r], 0.5)
		addScaled(dst[r], src[qsr], 0.5)
	case from == 4 && to == 6:
		addScaled(dst[l], src[l], 1)
		addScaled(dst[r], src[r], 1)
		addScaled(dst[sl], src[qsl], 1)
		addScaled(dst[sr], src[qsr], 1)
	case from == 6 && to == 1:
		addScaled(dst[0], src[l], h)
		addScaled(dst[0], src[r], h)
		addScaled(dst[0], src[c], 1)
		addScaled(dst[0], src[sl], 0.5)
		addScaled(dst[0], src[sr], 0.5)
	case from == 6 && to == 2:
		addScaled(dst[l], src[l], 1)
		addScaled(dst[l], src[c], h)
		addScaled(dst[l], src[sl], h)
		addScaled(dst[r], src[r], 1)
		addScaled(dst[r], src[c], h)
		addScaled(dst[r], src[sr], h)
	case from == 6 && to == 4:
		addScaled(dst[l], src[l], 1)
		addScaled(dst[l], src[c], h)
		addScaled(dst[r], src[r], 1)
		addScaled(dst[r], src[c], h)
		addScaled(dst[qsl], src[sl], 1)
		addScaled(dst[qsr], src[sr], 1)
	default:
		return false
	}

	return true
}
