// Package observability builds the process logger and the Prometheus
// collectors for token verification, role checks and realtime connections.
package observability
