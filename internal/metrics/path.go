package metrics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/physlab/internal/dynamo"
)

// PathLength is the distance travelled by the sample position.
type PathLength struct {
	name    string
	last    mgl64.Vec2
	sum     float64
	samples int
}

func NewPathLength() *PathLength {
	return &PathLength{name: "path_length"}
}

func (p *PathLength) Name() string {
	return p.name
}

func (p *PathLength) Observe(s dynamo.Sample, d dynamo.Derived) {
	if p.samples > 0 {
		p.sum += s.Position.Sub(p.last).Len()
	}
	p.last = s.Position
	p.samples++
}

func (p *PathLength) Value() float64 {
	return p.sum
}

func (p *PathLength) Reset() {
	p.last = mgl64.Vec2{}
	p.sum = 0
	p.samples = 0
}
