// Package camera wraps still capture behind a single operation.
//
// Capture encapsulates the warm-up delay the sensor needs between power-on
// and the shot for correct exposure. Camera faults are fatal — there is no
// retry or degraded mode on this appliance.
package camera

import "context"

// Camera takes one photo at a time.
type Camera interface {
	// Capture takes one photo into the PNG file at path, blocking through
	// warm-up and capture.
	Capture(ctx context.Context, path string) error

	// Close releases the camera.
	Close() error
}
