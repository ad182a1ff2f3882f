package domain

import "errors"

// Domain errors shared across services and adapters. Handlers map these to
// transport status codes; services wrap them with context via %w.
var (
	// ErrInvalidObservation marks an inbound record that cannot be keyed
	// into the inventory. Such records are logged and discarded, never
	// retried.
	ErrInvalidObservation = errors.New("invalid observation")

	// ErrDeviceDenied is returned when an operation targets a blacklisted
	// device. No inventory, tracker or alert state is touched.
	ErrDeviceDenied = errors.New("device is denied")

	// ErrStoreUnavailable signals that the device store cannot serve the
	// request.
	ErrStoreUnavailable = errors.New("device store unavailable")

	// ErrSweepInProgress rejects a sweep request while a batch is running.
	ErrSweepInProgress = errors.New("sweep already in progress")

	// ErrProbeUnavailable signals that the configured scan backend cannot
	// run (missing binary, no capture permission).
	ErrProbeUnavailable = errors.New("probe backend unavailable")
)
