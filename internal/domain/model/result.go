package model

import "github.com/google/uuid"

// Status is the per-channel outcome of one dispatch.
type Status string

const (
	StatusSent       Status = "sent"
	StatusFailed     Status = "failed"
	StatusSkipped    Status = "skipped"
	StatusSuppressed Status = "suppressed"
)

// Skip reasons reported in ChannelResult.Reason.
const (
	ReasonDisabled    = "disabled"
	ReasonNotTargeted = "not-targeted"
	ReasonUnknown     = "unknown channel"
)

// Suppression reasons reported in AggregateResult.Reason.
const (
	ReasonDuplicate          = "duplicate"
	ReasonQuietHours         = "quiet-hours"
	ReasonNoEligibleChannels = "no eligible channels"
)

// ChannelResult records what happened on a single channel.
type ChannelResult struct {
	Channel Channel `json:"channel"`
	Status  Status  `json:"status"`
	Reason  string  `json:"reason,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// Outcome is the aggregate verdict for a whole request.
type Outcome string

const (
	OutcomeSent       Outcome = "sent"
	OutcomePartial    Outcome = "partial_failure"
	OutcomeFailed     Outcome = "failed"
	OutcomeSuppressed Outcome = "suppressed"
	OutcomeSkipped    Outcome = "skipped"
)

// AggregateResult is the full accounting of one Manager.Send call. It is
// the output contract of both the CLI and the HTTP hook endpoint.
type AggregateResult struct {
	RequestID uuid.UUID       `json:"request_id"`
	Outcome   Outcome         `json:"outcome"`
	Reason    string          `json:"reason,omitempty"`
	Channels  []ChannelResult `json:"channels,omitempty"`
}

// Suppressed builds the short-circuit result used when dedup or quiet
// hours stop a request before any channel is contacted.
func Suppressed(id uuid.UUID, reason string) AggregateResult {
	return AggregateResult{RequestID: id, Outcome: OutcomeSuppressed, Reason: reason}
}

// Aggregate derives the overall outcome from per-channel results: sent if
// at least one channel succeeded, partial_failure on a mixed outcome,
// failed if every attempted channel failed, skipped if nothing was
// attempted at all.
func Aggregate(id uuid.UUID, results []ChannelResult) AggregateResult {
	var sent, failed int
	for _, r := range results {
		switch r.Status {
		case StatusSent:
			sent++
		case StatusFailed:
			failed++
		}
	}

	out := AggregateResult{RequestID: id, Channels: results}
	switch {
	case sent > 0 && failed > 0:
		out.Outcome = OutcomePartial
	case sent > 0:
		out.Outcome = OutcomeSent
	case failed > 0:
		out.Outcome = OutcomeFailed
	default:
		out.Outcome = OutcomeSkipped
		out.Reason = ReasonNoEligibleChannels
	}
	return out
}

// ExitCode maps the aggregate outcome to the process exit code: zero as
// long as at least one channel got the message or the request was
// deliberately suppressed, non-zero only when every attempt failed.
func (a AggregateResult) ExitCode() int {
	if a.Outcome == OutcomeFailed {
		return 1
	}
	return 0
}
