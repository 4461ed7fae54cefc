package sketch

// FrameRate is the simulated frame rate the clock assumes regardless of how
// often Step is actually called.
const FrameRate = 60

// FrameInterval is the simulated duration of one tick in milliseconds.
const FrameInterval = 1000.0 / FrameRate

// FrameClock counts ticks and derives simulated time from the count alone,
// so timing is reproducible no matter how fast the driving loop runs.
type FrameClock struct {
	tick     int
	interval float64
}

// NewFrameClock returns a clock at tick 0 with the given interval in ms.
// A non-positive interval falls back to FrameInterval.
func NewFrameClock(interval float64) *FrameClock {
	if interval <= 0 {
		interval = FrameInterval
	}
	return &FrameClock{interval: interval}
}

// Advance moves the clock forward one tick and returns the new tick.
func (c *FrameClock) Advance() int {
	c.tick++
	return c.tick
}

// Tick returns the current tick count.
func (c *FrameClock) Tick() int { return c.tick }

// Interval returns the simulated milliseconds per tick.
func (c *FrameClock) Interval() float64 { return c.interval }

// Now returns the simulated time of the current tick in ms.
func (c *FrameClock) Now() float64 { return float64(c.tick) * c.interval }

// Prev returns the simulated time of the previous tick in ms.
func (c *FrameClock) Prev() float64 { return c.Now() - c.interval }
