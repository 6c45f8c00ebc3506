// Package logging builds the slog loggers setlist writes to.
//
// The terminal gets a compact console format that puts the song key next to
// the message. The event log next to the catalogue gets JSON lines that carry
// the run id, so one run can be pulled out with grep. TeeLogger joins the two.
package logging
