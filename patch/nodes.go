package patch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/dsp/filter/design"
	"github.com/cwbudde/algo-webaudio/offline"
)

func newGain(b *Builder, p Params) (offline.AudioNode, error) {
	g := b.Context().CreateGain()
	setParam(g.Gain(), p, "gain")

	return g, nil
}

func newBiquad(b *Builder, p Params) (offline.AudioNode, error) {
	f := b.Context().CreateBiquadFilter()

	if s, ok := p.Str["type"]; ok {
		t, err := design.ParseType(s)
		if err != nil {
			return nil, err
		}

		err = f.SetType(t)
		if err != nil {
			return nil, err
		}
	}

	setParam(f.Frequency(), p, "frequency")
	setParam(f.Detune(), p, "detune")
	setParam(f.Q(), p, "Q")
	setParam(f.Gain(), p, "gain")

	return f, nil
}

func newIIR(b *Builder, p Params) (offline.AudioNode, error) {
	f, err := b.Context().CreateIIRFilter(p.GetList("feedforward"), p.GetList("feedback"))
	if err != nil {
		return nil, err
	}

	return f, nil
}

// newBufferSource plays either the decoded "file" or the inline mono
// "samples" at the context rate. The source is started unless "start" is
// negative.
func newBufferSource(b *Builder, p Params) (offline.AudioNode, error) {
	oc := b.Context()
	s := oc.CreateBufferSource()

	buf, err := sourceBuffer(b, p)
	if err != nil {
		return nil, err
	}

	if buf != nil {
		err = s.SetBuffer(buf)
		if err != nil {
			return nil, err
		}
	}

	s.SetLoop(p.GetNum("loop", 0) != 0)
	s.SetLoopStart(p.GetNum("loopStart", 0))
	s.SetLoopEnd(p.GetNum("loopEnd", 0))
	setParam(s.PlaybackRate(), p, "playbackRate")
	setParam(s.Detune(), p, "detune")

	when := p.GetNum("start", 0)
	if when < 0 {
		return s, nil
	}

	err = s.Start(when, p.GetNum("offset", 0), p.GetNum("duration", offline.PlayToEnd))
	if err != nil {
		return nil, err
	}

	if p.Has("stop") {
		err = s.Stop(p.GetNum("stop", 0))
		if err != nil {
			return nil, err
		}
	}

	return s, nil
}

func sourceBuffer(b *Builder, p Params) (*buffer.AudioBuffer, error) {
	if samples, ok := p.List["samples"]; ok {
		data := make([]float32, len(samples))
		for i, v := range samples {
			data[i] = float32(v)
		}

		return buffer.FromChannels(b.Context().SampleRate(), data)
	}

	name, ok := p.Str["file"]
	if !ok {
		return nil, nil
	}

	format := p.GetStr("format", strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), "."))

	buf, err := b.decode(name, format)
	if err != nil {
		return nil, fmt.Errorf("patch: node %q: %w", p.ID, err)
	}

	return buf, nil
}

func setParam(param *offline.Param, p Params, key string) {
	if p.Has(key) {
		param.SetValue(p.GetNum(key, param.Value()))
	}
}
