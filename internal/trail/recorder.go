package trail

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/physlab/internal/dynamo"
)

// Default capacities.
const (
	ProjectileLength = 2000
	BallLength       = 30
	PendulumLength   = 100
	PhaseLength      = 200
)

// Point is one trail entry.
type Point struct {
	Time     float64
	Position mgl64.Vec2
	// Speed is the magnitude of the sample velocity, used to shade trails.
	Speed float64
}

// Recorder is a dynamo.Observer that remembers recent sample positions.
type Recorder struct {
	ring *Ring[Point]
}

func NewRecorder(capacity int) *Recorder {
	return &Recorder{ring: NewRing[Point](capacity)}
}

func (r *Recorder) OnStep(s dynamo.Sample) {
	r.ring.Push(Point{Time: s.Time, Position: s.Position, Speed: sampleSpeed(s.State)})
}

func (r *Recorder) Points() []Point { return r.ring.Items() }
func (r *Recorder) Len() int        { return r.ring.Len() }
func (r *Recorder) Clear()          { r.ring.Clear() }

// MaxSpeed is the largest recorded speed, 0 for an empty trail.
func (r *Recorder) MaxSpeed() float64 {
	best := 0.0
	for i := 0; i < r.ring.Len(); i++ {
		if s := r.ring.At(i).Speed; s > best {
			best = s
		}
	}
	return best
}

// sampleSpeed reads the velocity half of a [positions..., velocities...] state.
func sampleSpeed(x dynamo.State) float64 {
	half := len(x) / 2
	if half == 0 {
		return 0
	}
	return x[half:].Norm()
}

// PhaseRecorder keeps (position, velocity) pairs of the first coordinate,
// i.e. (θ, ω) for the pendulum.
type PhaseRecorder struct {
	ring *Ring[mgl64.Vec2]
}

func NewPhaseRecorder(capacity int) *PhaseRecorder {
	return &PhaseRecorder{ring: NewRing[mgl64.Vec2](capacity)}
}

func (p *PhaseRecorder) OnStep(s dynamo.Sample) {
	half := len(s.State) / 2
	if half == 0 {
		return
	}
	p.ring.Push(mgl64.Vec2{s.State[0], s.State[half]})
}

func (p *PhaseRecorder) Points() []mgl64.Vec2 { return p.ring.Items() }
func (p *PhaseRecorder) Len() int             { return p.ring.Len() }
func (p *PhaseRecorder) Clear()               { p.ring.Clear() }
