// Package button turns the raw, bouncy level of a push-button GPIO line
// into clean press and release events.
//
// The button is wired active-low with a pull-up: the line idles high and
// reads low while held. Debouncing is sample-and-compare — one sample per
// fixed interval, so electrical bounce between samples is never observed.
// This caps responsiveness at one transition per interval, which is plenty
// for a human-operated button.
package button

import "time"

// Edge is the direction of a button transition.
type Edge int

const (
	// Pressed is the high→low transition (button went down).
	Pressed Edge = iota
	// Released is the low→high transition (button came up).
	Released
)

// String returns the edge name for logs.
func (e Edge) String() string {
	if e == Pressed {
		return "pressed"
	}
	return "released"
}

// Event is a single debounced transition.
type Event struct {
	Edge Edge
	At   time.Time
}

// Line is a raw digital input. Read reports the current level: true is the
// idle (high) level, false means the button is held. Reading the line is
// assumed infallible at this layer; hardware faults surface when the line
// is opened, not per sample.
type Line interface {
	Read() bool
}

// Debouncer samples a Line at a fixed interval and emits edge events.
// The previous stable level is owned state of the instance; it starts at
// the idle level so a device booting with the button untouched emits
// nothing until the first real press.
type Debouncer struct {
	line     Line
	interval time.Duration
	prev     bool

	sleep func(time.Duration)
	now   func() time.Time
}

// NewDebouncer creates a Debouncer polling line every interval.
func NewDebouncer(line Line, interval time.Duration) *Debouncer {
	return &Debouncer{
		line:     line,
		interval: interval,
		prev:     true,
		sleep:    time.Sleep,
		now:      time.Now,
	}
}

// Poll takes one sample, waits out the debounce interval, and compares the
// sample to the previous stable level. It returns the resulting edge event,
// or nil when the level is unchanged. The event timestamp is taken after
// the interval, when the transition is actually detected.
func (d *Debouncer) Poll() *Event {
	level := d.line.Read()
	d.sleep(d.interval)

	var ev *Event
	switch {
	case d.prev && !level:
		ev = &Event{Edge: Pressed, At: d.now()}
	case !d.prev && level:
		ev = &Event{Edge: Released, At: d.now()}
	}

	d.prev = level
	return ev
}
