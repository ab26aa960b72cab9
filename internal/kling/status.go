package kling

import "strings"

// Status is the three-value vocabulary exposed to clients, abstracting
// whatever the upstream reports.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// Normalize maps a raw upstream status to the client-facing vocabulary.
// Unrecognized values (including empty) normalize to processing: an unknown
// upstream state must never surface to the client as a failure on its own.
func Normalize(raw string) Status {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "COMPLETED":
		return StatusDone
	case "FAILED":
		return StatusError
	default:
		return StatusProcessing
	}
}
