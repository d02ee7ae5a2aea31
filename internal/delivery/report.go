package delivery

import (
	"fmt"
	"strings"

	"github.com/shred03/file-sequence-bot/internal/media"
)

// Failure is one permanently failed item with the last error message.
type Failure struct {
	Name   string
	Reason string
}

// Report aggregates the outcome of one delivery run. Failures is capped at
// the configured display limit; Omitted counts the remainder.
type Report struct {
	Total    int
	Sent     int
	Failed   int
	Failures []Failure
	Omitted  int

	failureLimit int
}

func newReport(total, failureLimit int) *Report {
	return &Report{Total: total, failureLimit: failureLimit}
}

func (r *Report) fail(item media.Item, err error) {
	r.Failed++

	name := item.Name
	if name == "" {
		name = "(unnamed file)"
	}

	if len(r.Failures) < r.failureLimit {
		r.Failures = append(r.Failures, Failure{Name: name, Reason: err.Error()})
	} else {
		r.Omitted++
	}
}

// Summary renders the single user-facing outcome message for a close.
func (r *Report) Summary() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Sequence delivered: %d/%d file(s) sent", r.Sent, r.Total)
	if r.Failed > 0 {
		fmt.Fprintf(&sb, ", %d failed", r.Failed)
	}
	sb.WriteString(".")

	if len(r.Failures) > 0 {
		sb.WriteString("\n\nFailed files:")
		for _, f := range r.Failures {
			fmt.Fprintf(&sb, "\n- %s: %s", f.Name, f.Reason)
		}
		if r.Omitted > 0 {
			fmt.Fprintf(&sb, "\n...and %d more", r.Omitted)
		}
	}

	return sb.String()
}
