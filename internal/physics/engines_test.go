package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/physics"
)

const tick = 1.0 / 60

type eventLog struct {
	steps  int
	events []dynamo.Event
}

func (l *eventLog) OnStep(dynamo.Sample) { l.steps++ }

func (l *eventLog) OnEvent(ev dynamo.Event, _ dynamo.Sample) {
	l.events = append(l.events, ev)
}

func (l *eventLog) count(ev dynamo.Event) int {
	n := 0
	for _, e := range l.events {
		if e == ev {
			n++
		}
	}
	return n
}

func flyUntilGrounded(p *physics.Projectile) physics.ProjectileSummary {
	for i := 0; i < 100000 && !p.State().Grounded; i++ {
		p.Step(tick)
	}
	return p.Summary()
}

var _ = Describe("Projectile", func() {
	DescribeTable("range is symmetric about 45 degrees",
		func(low, high float64) {
			cfg := physics.DefaultProjectileConfig()
			cfg.LaunchSpeed = 50

			cfg.LaunchAngleDeg = low
			a := flyUntilGrounded(physics.NewProjectile(cfg))
			cfg.LaunchAngleDeg = high
			b := flyUntilGrounded(physics.NewProjectile(cfg))

			Expect(a.Range).To(BeNumerically(">", 0))
			Expect(math.Abs(a.Range-b.Range) / a.Range).To(BeNumerically("<", 0.01))
		},
		Entry("30 and 60", 30.0, 60.0),
		Entry("20 and 70", 20.0, 70.0),
	)

	It("lands close to the closed-form prediction without drag", func() {
		cfg := physics.DefaultProjectileConfig()
		p := physics.NewProjectile(cfg)
		s := flyUntilGrounded(p)
		want := cfg.Predict()

		Expect(s.Range).To(BeNumerically("~", want.Range, want.Range*0.01))
		Expect(s.MaxHeight).To(BeNumerically("~", want.MaxHeight, want.MaxHeight*0.01))
		Expect(s.FlightTime).To(BeNumerically("~", want.FlightTime, want.FlightTime*0.01))
	})

	It("flies shorter with drag and shorter still into a headwind", func() {
		cfg := physics.DefaultProjectileConfig()
		basic := flyUntilGrounded(physics.NewProjectile(cfg))

		cfg.Advanced = true
		cfg.Mass = 10
		cfg.CrossSectionArea = 150
		drag := flyUntilGrounded(physics.NewProjectile(cfg))

		cfg.WindSpeed = -20
		headwind := flyUntilGrounded(physics.NewProjectile(cfg))

		Expect(drag.Range).To(BeNumerically("<", basic.Range))
		Expect(headwind.Range).To(BeNumerically("<", drag.Range))
	})

	It("emits a single impact and then ignores steps", func() {
		p := physics.NewProjectile(physics.DefaultProjectileConfig())
		log := &eventLog{}
		p.Observe(log)

		flyUntilGrounded(p)
		landed := p.State()
		for i := 0; i < 10; i++ {
			p.Step(tick)
		}

		Expect(log.count(dynamo.EventImpact)).To(Equal(1))
		Expect(p.State()).To(Equal(landed))
		Expect(landed.Position.Y()).To(Equal(0.0))
		Expect(p.Derived().KineticEnergy).To(Equal(0.0))
	})
})

var _ = Describe("Ball", func() {
	elastic := func() physics.BallConfig {
		cfg := physics.DefaultBallConfig()
		cfg.Elasticity = 1
		cfg.Friction = 1
		cfg.AirResistance = 0
		return cfg
	}

	It("conserves energy tick to tick when nothing dissipates", func() {
		b := physics.NewBall(elastic())
		prev := b.Derived().TotalEnergy
		for i := 0; i < 2000; i++ {
			b.Step(tick)
			cur := b.Derived().TotalEnergy
			Expect(math.Abs(cur-prev) / prev).To(BeNumerically("<=", 1e-6))
			prev = cur
		}
	})

	It("stays inside the arena", func() {
		b := physics.NewBall(elastic())
		w, h := b.Arena()
		for i := 0; i < 2000; i++ {
			s := b.Step(tick)
			Expect(s.Position.X()).To(BeNumerically(">=", s.Radius-1e-9))
			Expect(s.Position.X()).To(BeNumerically("<=", w-s.Radius+1e-9))
			Expect(s.Position.Y()).To(BeNumerically(">=", s.Radius-1e-9))
			Expect(s.Position.Y()).To(BeNumerically("<=", h-s.Radius+1e-9))
		}
	})

	It("never gains energy when a dissipative term is active", func() {
		b := physics.NewBall(physics.DefaultBallConfig())
		prev := b.Derived().TotalEnergy
		for i := 0; i < 1500; i++ {
			b.Step(tick)
			cur := b.Derived().TotalEnergy
			Expect(cur).To(BeNumerically("<=", prev+1e-9))
			prev = cur
		}
	})

	It("comes to rest on the floor", func() {
		cfg := physics.DefaultBallConfig()
		cfg.InitialSpeed = 0
		b := physics.NewBall(cfg)
		log := &eventLog{}
		b.Observe(log)

		for i := 0; i < 1200; i++ {
			b.Step(tick)
		}

		s := b.State()
		Expect(s.Resting).To(BeTrue())
		Expect(s.Velocity.Y()).To(Equal(0.0))
		Expect(s.Position.Y()).To(Equal(s.Radius))
		Expect(log.count(dynamo.EventRest)).To(Equal(1))
		Expect(log.count(dynamo.EventBounce)).To(BeNumerically(">", 5))
	})

	It("bleeds off rolling speed once resting", func() {
		b := physics.NewBall(physics.DefaultBallConfig())
		for i := 0; i < 3000; i++ {
			b.Step(tick)
		}
		Expect(b.State().Resting).To(BeTrue())
		Expect(math.Abs(b.State().Velocity.X())).To(BeNumerically("<", 1e-6))
	})

	It("reports the drop point in pixels", func() {
		b := physics.NewBall(physics.DefaultBallConfig())
		px := b.Pixels()
		Expect(px.X).To(BeNumerically("~", 400, 1e-9))
		Expect(px.Y).To(BeNumerically("~", 50, 1e-9))
		Expect(px.Radius).To(Equal(20.0))
	})
})

var _ = Describe("Pendulum", func() {
	It("converges to the small-angle period", func() {
		cfg := physics.DefaultPendulumConfig()
		cfg.Damping = 0
		cfg.InitialAngleDeg = 5
		p := physics.NewPendulum(cfg)
		period := cfg.Period()

		var measured []float64
		last := 0.0
		for p.Time() < 11*period {
			p.Step(tick)
			if m := p.Derived().MeasuredPeriod; m != last {
				measured = append(measured, m)
				last = m
			}
		}

		Expect(len(measured)).To(BeNumerically(">=", 8))
		for _, m := range measured {
			Expect(math.Abs(m-period) / period).To(BeNumerically("<", 0.05))
		}
	})

	It("keeps energy bounded without damping", func() {
		cfg := physics.DefaultPendulumConfig()
		cfg.Damping = 0
		p := physics.NewPendulum(cfg)
		e0 := p.Derived().TotalEnergy

		var first, last float64
		for i := 0; i < 3000; i++ {
			p.Step(tick)
			e := p.Derived().TotalEnergy
			Expect(math.Abs(e-e0) / e0).To(BeNumerically("<", 0.05))
			if i < 500 {
				first += e
			}
			if i >= 2500 {
				last += e
			}
		}
		Expect(math.Abs(last-first) / first).To(BeNumerically("<", 0.01))
	})

	It("loses energy monotonically with damping", func() {
		cfg := physics.DefaultPendulumConfig()
		cfg.Integrator = "rk4"
		p := physics.NewPendulum(cfg)
		e0 := p.Derived().TotalEnergy
		prev := e0
		for i := 0; i < 1200; i++ {
			p.Step(tick)
			cur := p.Derived().TotalEnergy
			Expect(cur).To(BeNumerically("<=", prev+1e-9*e0))
			prev = cur
		}
		Expect(prev).To(BeNumerically("<", 0.8*e0))
	})

	It("releases near 90 degrees without trouble", func() {
		cfg := physics.DefaultPendulumConfig()
		cfg.InitialAngleDeg = 90
		cfg.Damping = 0
		p := physics.NewPendulum(cfg)
		for i := 0; i < 600; i++ {
			s := p.Step(tick)
			Expect(s.Angle).To(BeNumerically("<=", math.Pi/2+0.05))
			Expect(s.Angle).To(BeNumerically(">=", -math.Pi/2-0.05))
		}
	})
})

var _ = Describe("Engines", func() {
	engines := func() []dynamo.Engine {
		return []dynamo.Engine{
			physics.NewProjectile(physics.DefaultProjectileConfig()),
			physics.NewBall(physics.DefaultBallConfig()),
			physics.NewPendulum(physics.DefaultPendulumConfig()),
		}
	}

	It("reset is idempotent", func() {
		fresh := engines()
		for i, e := range engines() {
			for n := 0; n < 137; n++ {
				e.Advance(tick)
			}
			e.Restart()
			e.Restart()
			Expect(e.Vector()).To(Equal(fresh[i].Vector()), e.Name())
			Expect(e.Time()).To(Equal(0.0), e.Name())
			Expect(e.Derived()).To(Equal(fresh[i].Derived()), e.Name())
		}
	})

	It("keeps time monotonic and ignores bad frame deltas", func() {
		for _, e := range engines() {
			e.Advance(tick)
			before := e.Vector()
			t := e.Time()
			for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
				e.Advance(dt)
			}
			Expect(e.Time()).To(Equal(t), e.Name())
			Expect(e.Vector()).To(Equal(before), e.Name())

			e.Advance(10)
			Expect(e.Time()).To(BeNumerically("<=", t+physics.MaxStep+1e-12), e.Name())
			Expect(e.Time()).To(BeNumerically(">=", t), e.Name())
		}
	})

	It("clamps negative gravity to the lower bound", func() {
		for _, e := range engines() {
			c := e.(dynamo.Configurable)
			Expect(c.SetParam("gravity", -5)).To(Succeed())
			Expect(c.GetParams()["gravity"]).To(Equal(1.0), e.Name())
		}
	})

	It("never reports negative energies", func() {
		for _, e := range engines() {
			for n := 0; n < 600; n++ {
				e.Advance(tick)
				d := e.Derived()
				Expect(d.PotentialEnergy).To(BeNumerically(">=", 0), e.Name())
				Expect(d.KineticEnergy).To(BeNumerically(">=", 0), e.Name())
			}
		}
	})
})
