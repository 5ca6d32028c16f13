// Package expiry decides when stored entities stop being live.
package expiry

import (
	"time"

	"github.com/acksell/statustable"
)

// DefaultIssueRetention is how long a resolved or closed issue is kept.
const DefaultIssueRetention = 90 * 24 * time.Hour

// Policy maps an entity, in its current state, to an expiry instant.
type Policy struct {
	issueRetention time.Duration
}

type Option func(*Policy)

// WithIssueRetention overrides how long resolved and closed issues are kept.
func WithIssueRetention(d time.Duration) Option {
	return func(p *Policy) {
		p.issueRetention = d
	}
}

func New(opts ...Option) Policy {
	p := Policy{issueRetention: DefaultIssueRetention}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// ExpiryFor returns the instant after which e is logically deleted, or nil if
// it never expires.
//
// Done issues expire a retention period after their resolution. An issue
// marked done without a resolution instant is counted from now, so the result
// is never earlier for a later now.
func (p Policy) ExpiryFor(e statustable.Entity, now time.Time) *time.Time {
	switch e := e.(type) {
	case statustable.Issue:
		if !e.Status.Done() {
			return nil
		}
		from := now
		if e.ResolvedAt != nil {
			from = *e.ResolvedAt
		}
		at := from.Add(p.issueRetention).UTC()
		return &at
	default:
		return nil
	}
}
