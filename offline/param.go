package offline

import (
	"math"
	"sync"

	"github.com/cwbudde/algo-webaudio/native"
)

// Param is an AudioParam of a node proxy. Only the intrinsic value is
// rendered; the automation methods are accepted and ignored. Once the node
// has been rendered, value changes are forwarded to the native parameters.
type Param struct {
	mu sync.Mutex

	value        float64
	defaultValue float64
	minValue     float64
	maxValue     float64

	bound []native.Param
}

const (
	mostNegative = -math.MaxFloat32
	mostPositive = math.MaxFloat32
)

func newParam(defaultValue, minValue, maxValue float64) *Param {
	return &Param{
		value:        defaultValue,
		defaultValue: defaultValue,
		minValue:     minValue,
		maxValue:     maxValue,
	}
}

func (p *Param) Value() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.value
}

func (p *Param) SetValue(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.value = v
	for _, np := range p.bound {
		np.SetValue(v)
	}
}

func (p *Param) DefaultValue() float64 { return p.defaultValue }
func (p *Param) MinValue() float64     { return p.minValue }
func (p *Param) MaxValue() float64     { return p.maxValue }

func (p *Param) SetValueAtTime(value, startTime float64) *Param { return p }

func (p *Param) LinearRampToValueAtTime(value, endTime float64) *Param { return p }

func (p *Param) ExponentialRampToValueAtTime(value, endTime float64) *Param { return p }

func (p *Param) SetTargetAtTime(target, startTime, timeConstant float64) *Param { return p }

func (p *Param) CancelScheduledValues(cancelTime float64) *Param { return p }

// bind copies the value into np and forwards later changes to it.
func (p *Param) bind(np native.Param) {
	p.mu.Lock()
	defer p.mu.Unlock()

	np.SetValue(p.value)
	p.bound = append(p.bound, np)
}
