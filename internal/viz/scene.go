package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/physics"
	"github.com/san-kum/physlab/internal/trail"
	"github.com/san-kum/physlab/internal/units"
)

// Scene draws an engine and its recorded trail onto a canvas.
type Scene struct {
	Trail *trail.Recorder
	Phase *trail.PhaseRecorder
}

// Draw clears c and renders e. Engines without a dedicated drawing get a
// generic view of their sample positions.
func (s Scene) Draw(c *Canvas, e dynamo.Engine) {
	c.Clear()
	switch eng := e.(type) {
	case *physics.Projectile:
		s.drawProjectile(c, eng)
	case *physics.Ball:
		s.drawBall(c, eng)
	case *physics.Pendulum:
		s.drawPendulum(c, eng)
	default:
		s.drawGeneric(c, e)
	}
}

func (s Scene) points() []trail.Point {
	if s.Trail == nil {
		return nil
	}
	return s.Trail.Points()
}

func (s Scene) drawProjectile(c *Canvas, p *physics.Projectile) {
	cw, ch := c.Dots()
	pred := p.Config().Predict()
	vp := Viewport{
		MaxX:   pred.Range * 1.05,
		MaxY:   pred.MaxHeight * 1.2,
		W:      cw,
		H:      ch,
		Margin: 2,
	}
	pts := s.points()
	for _, pt := range pts {
		vp.Include(pt.Position.X(), pt.Position.Y())
	}
	pos := p.State().Position
	vp.Include(pos.X(), pos.Y())

	gx0, gy := vp.Project(vp.MinX, 0)
	gx1, _ := vp.Project(vp.MaxX, 0)
	c.DrawLine(gx0, gy, gx1, gy)

	drawPath(c, vp, pts)

	x, y := vp.Project(pos.X(), pos.Y())
	c.FillCircle(x, y, 1)
}

// drawBall maps the arena pixel space onto the canvas.
func (s Scene) drawBall(c *Canvas, b *physics.Ball) {
	cw, ch := c.Dots()
	cfg := b.Config()
	sx := float64(cw-1) / cfg.Width
	sy := float64(ch-1) / cfg.Height
	c.DrawRect(0, 0, cw-1, ch-1)

	scale := units.Scale(cfg.PixelsPerMeter)
	for _, pt := range s.points() {
		px := scale.VecToPixels(pt.Position, cfg.Height)
		c.Set(int(math.Round(px.X()*sx)), int(math.Round(px.Y()*sy)))
	}

	ball := b.Pixels()
	r := int(math.Round(ball.Radius * sx))
	if r < 1 {
		r = 1
	}
	c.DrawCircle(int(math.Round(ball.X*sx)), int(math.Round(ball.Y*sy)), r)
}

func (s Scene) drawPendulum(c *Canvas, p *physics.Pendulum) {
	cw, ch := c.Dots()
	l := p.Config().Length
	scale := math.Min(float64(ch-10)/l, float64(cw/2-4)/l)
	pivot := mgl64.Vec2{float64(cw / 2), 4}

	c.DrawLine(cw/2-6, 3, cw/2+6, 3)

	for _, pt := range s.points() {
		x := pivot.X() + pt.Position.X()*scale
		y := pivot.Y() - pt.Position.Y()*scale
		c.Set(int(math.Round(x)), int(math.Round(y)))
	}

	bob := p.Bob(pivot, scale)
	bx, by := int(math.Round(bob.X())), int(math.Round(bob.Y()))
	c.DrawLine(int(pivot.X()), int(pivot.Y()), bx, by)
	c.FillCircle(bx, by, 2)
}

func (s Scene) drawGeneric(c *Canvas, e dynamo.Engine) {
	cw, ch := c.Dots()
	vp := Viewport{W: cw, H: ch, Margin: 2}
	pts := s.points()
	pos := e.Sample().Position
	vp.MinX, vp.MaxX = pos.X(), pos.X()
	vp.MinY, vp.MaxY = pos.Y(), pos.Y()
	for _, pt := range pts {
		vp.Include(pt.Position.X(), pt.Position.Y())
	}
	drawPath(c, vp, pts)
	x, y := vp.Project(pos.X(), pos.Y())
	c.FillCircle(x, y, 1)
}

// DrawPhase plots the recorded (θ, ω) pairs with axes through the origin.
func (s Scene) DrawPhase(c *Canvas) {
	c.Clear()
	if s.Phase == nil {
		return
	}
	pts := s.Phase.Points()
	if len(pts) == 0 {
		return
	}

	cw, ch := c.Dots()
	// symmetric bounds keep the origin centred
	var mx, my float64
	for _, p := range pts {
		mx = math.Max(mx, math.Abs(p.X()))
		my = math.Max(my, math.Abs(p.Y()))
	}
	if mx == 0 {
		mx = 1
	}
	if my == 0 {
		my = 1
	}
	vp := Viewport{MinX: -mx, MaxX: mx, MinY: -my, MaxY: my, W: cw, H: ch, Margin: 1}

	ox, oy := vp.Project(0, 0)
	c.DrawLine(0, oy, cw-1, oy)
	c.DrawLine(ox, 0, ox, ch-1)

	px, py := vp.Project(pts[0].X(), pts[0].Y())
	for _, p := range pts[1:] {
		x, y := vp.Project(p.X(), p.Y())
		c.DrawLine(px, py, x, y)
		px, py = x, y
	}
}

func drawPath(c *Canvas, vp Viewport, pts []trail.Point) {
	if len(pts) == 0 {
		return
	}
	px, py := vp.Project(pts[0].Position.X(), pts[0].Position.Y())
	c.Set(px, py)
	for _, pt := range pts[1:] {
		x, y := vp.Project(pt.Position.X(), pt.Position.Y())
		c.DrawLine(px, py, x, y)
		px, py = x, y
	}
}
