package lint

import (
	"time"

	"trespass/parser"
)

// Rule identifiers attached to findings.
const (
	RuleProtectedAccess = "protected-access"
	RulePrivateAccess   = "private-access"
	RuleUnknownMember   = "unknown-member"
)

// Finding is one flagged access site.
type Finding struct {
	Rule      string
	Message   string
	Member    string
	Class     string // runtime class of the receiver
	Declaring string // class declaring the member, empty for unknown members
	Context   string // class the access originates from, empty for top-level code
	Location  parser.Location
}

// Result summarizes a lint run.
type Result struct {
	RunID       string
	Findings    []Finding
	Files       int
	Skipped     int
	PerLanguage map[string]int
	Checks      int
	Allowed     int
	Denied      int
	Unknown     int
	Duration    time.Duration
	StartedAt   time.Time
}

// Failed reports whether the run should count as failed under the
// report policy: unknown members always fail, denials only when
// fail_on_denial is set.
func (r *Result) Failed(failOnDenial bool) bool {
	if r.Unknown > 0 {
		return true
	}
	return failOnDenial && r.Denied > 0
}
