package animation

import (
	"fmt"
	"time"
)

// Status is the controller state. A running controller is Forward or
// Backward and returns to Idle when it reaches 1 or 0 respectively.
type Status int

const (
	Idle Status = iota
	Forward
	Backward
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Controller produces a value between 0 and 1 driven by explicit time steps.
//
// The controller owns no timer. The caller advances it from its own event
// loop, which keeps the decoration core free of goroutines.
type Controller struct {
	// Duration is the time a full 0 to 1 run takes.
	Duration time.Duration
	// Curve eases the linear position. Nil means EaseInOutQuad.
	Curve Curve

	status         Status
	t              float64
	listeners      map[int]func(float64)
	nextListenerID int
}

// NewController returns an idle controller at 0.
func NewController(duration time.Duration) *Controller {
	return &Controller{
		Duration:  duration,
		Curve:     EaseInOutQuad,
		listeners: make(map[int]func(float64)),
	}
}

// Start runs the animation in dir. From idle, a forward run begins at 0 and a
// backward run at 1. While running only the direction changes, so the run
// continues from its current position.
func (c *Controller) Start(dir Status) {
	if dir != Forward && dir != Backward {
		return
	}
	if c.status == Idle {
		if dir == Forward {
			c.t = 0
		} else {
			c.t = 1
		}
	}
	c.status = dir
	if c.Duration <= 0 {
		c.finish()
	}
	c.notify()
}

// SetDirection changes direction without starting an idle controller.
func (c *Controller) SetDirection(dir Status) {
	if c.status != Idle && (dir == Forward || dir == Backward) {
		c.status = dir
	}
}

// Advance moves the animation by dt and returns the eased value.
func (c *Controller) Advance(dt time.Duration) float64 {
	if c.status == Idle || dt <= 0 {
		return c.Value()
	}
	if c.Duration <= 0 {
		c.finish()
		c.notify()
		return c.Value()
	}
	step := float64(dt) / float64(c.Duration)
	if c.status == Forward {
		c.t += step
		if c.t >= 1 {
			c.finish()
		}
	} else {
		c.t -= step
		if c.t <= 0 {
			c.finish()
		}
	}
	c.notify()
	return c.Value()
}

func (c *Controller) finish() {
	if c.status == Forward {
		c.t = 1
	} else {
		c.t = 0
	}
	c.status = Idle
}

// Stop halts the animation at its current position.
func (c *Controller) Stop() {
	c.status = Idle
}

// Value is the eased position.
func (c *Controller) Value() float64 {
	curve := c.Curve
	if curve == nil {
		curve = EaseInOutQuad
	}
	switch {
	case c.t <= 0:
		return 0
	case c.t >= 1:
		return 1
	}
	return curve(c.t)
}

// Progress is the linear position.
func (c *Controller) Progress() float64 {
	return c.t
}

// Status returns the current state.
func (c *Controller) Status() Status {
	return c.status
}

// Running reports whether the controller is moving.
func (c *Controller) Running() bool {
	return c.status != Idle
}

// AddListener registers fn to be called with the value after every change.
// It returns an unsubscribe function.
func (c *Controller) AddListener(fn func(float64)) func() {
	if c.listeners == nil {
		c.listeners = make(map[int]func(float64))
	}
	id := c.nextListenerID
	c.nextListenerID++
	c.listeners[id] = fn
	return func() {
		delete(c.listeners, id)
	}
}

func (c *Controller) notify() {
	v := c.Value()
	for _, fn := range c.listeners {
		fn(v)
	}
}
