package main

import "errors"

var (
	// ErrInvalidArgument is returned when a caller supplies an input
	// that can't be used, such as a non-positive scale or a missing
	// viewpoint. It is always reported before any geometry work.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDegenerateGeometry is returned when a surface has no area, so
	// a centroid or an area ratio is undefined.
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrNotInitialized is returned by SkyModel when its context hasn't
	// been loaded yet.
	ErrNotInitialized = errors.New("sky model not initialized")
)
