// Package timeouts defines shared timeout constants for portfolio processes.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Request caps the time allowed for a single API request.
const Request = 10 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// WatchDebounce batches rapid filesystem events on the content file.
const WatchDebounce = 250 * time.Millisecond
