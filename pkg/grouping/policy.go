package grouping

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/modelmerge/pkg/errors"
)

// Policy selects the single occupant of a slot that holds more than one
// candidate record.
type Policy string

const (
	// PolicyLastSeen keeps the last candidate in input order. This matches the
	// overwrite behavior of the catalog exports this engine was built for.
	PolicyLastSeen Policy = "last-seen"
	// PolicyFirstSeen keeps the first candidate in input order.
	PolicyFirstSeen Policy = "first-seen"
	// PolicyReject refuses to pick and reports the group as ambiguous.
	PolicyReject Policy = "reject"
)

// DefaultPolicy is used when no policy is configured.
const DefaultPolicy = PolicyLastSeen

// Policies lists every supported policy.
func Policies() []Policy {
	return []Policy{PolicyLastSeen, PolicyFirstSeen, PolicyReject}
}

// String returns the string representation of a policy.
func (p Policy) String() string {
	return string(p)
}

// Name returns a human-readable name, e.g. "Last Seen".
func (p Policy) Name() string {
	caser := cases.Title(language.English)
	return caser.String(strings.ReplaceAll(string(p), "-", " "))
}

// ParsePolicy converts s to a Policy. An empty string yields DefaultPolicy.
func ParsePolicy(s string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case "":
		return DefaultPolicy, nil
	case PolicyLastSeen, PolicyFirstSeen, PolicyReject:
		return p, nil
	default:
		return "", &errors.ValidationError{
			Field:   "policy",
			Value:   s,
			Message: "must be one of: last-seen, first-seen, reject",
		}
	}
}
