// Package owners classifies model identifiers as vendor-qualified or not and
// derives the base identifier shared by both spellings of the same model.
//
// The owner token list is configuration: it grows as vendors are onboarded,
// so callers build a Set once and pass it to the grouping index.
package owners

import (
	"strings"

	"github.com/agentstation/modelmerge/pkg/constants"
	"github.com/agentstation/modelmerge/pkg/errors"
)

// Separator joins an owner token to the rest of a vendor-qualified id.
const Separator = "-"

// Set is an ordered list of owner tokens. Order matters: the first token that
// prefixes an id wins.
type Set []string

// Identity is the result of normalizing a single id.
type Identity struct {
	ID       string
	Owner    string // matched owner token, empty when HasOwner is false
	BaseID   string
	HasOwner bool
}

// New validates tokens and returns a Set. Duplicate tokens are dropped,
// keeping the first position.
func New(tokens ...string) (Set, error) {
	set := make(Set, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		if strings.TrimSpace(token) == "" {
			return nil, &errors.ValidationError{
				Field:   "owners",
				Value:   token,
				Message: "owner token cannot be empty",
			}
		}
		if token != strings.TrimSpace(token) || strings.HasSuffix(token, Separator) {
			return nil, &errors.ValidationError{
				Field:   "owners",
				Value:   token,
				Message: "owner token must not carry surrounding whitespace or a trailing separator",
			}
		}
		if seen[token] {
			continue
		}
		seen[token] = true
		set = append(set, token)
	}
	return set, nil
}

// Default returns the Set built from constants.DefaultOwners.
func Default() Set {
	return Set(constants.DefaultOwners())
}

// Parse splits comma-separated entries and builds a Set. Entries may mix
// single tokens and comma lists, as produced by flags and env vars.
func Parse(entries []string) (Set, error) {
	var tokens []string
	for _, entry := range entries {
		for _, part := range strings.Split(entry, ",") {
			if part = strings.TrimSpace(part); part != "" {
				tokens = append(tokens, part)
			}
		}
	}
	return New(tokens...)
}

// Normalize classifies id against the set.
func (s Set) Normalize(id string) Identity {
	for _, owner := range s {
		prefix := owner + Separator
		if strings.HasPrefix(id, prefix) {
			return Identity{
				ID:       id,
				Owner:    owner,
				BaseID:   id[len(prefix):],
				HasOwner: true,
			}
		}
	}
	return Identity{ID: id, BaseID: id}
}

// BaseID returns id with a matched owner prefix removed.
func (s Set) BaseID(id string) string {
	return s.Normalize(id).BaseID
}

// HasOwnerPrefix reports whether id starts with a known owner token.
func (s Set) HasOwnerPrefix(id string) bool {
	return s.Normalize(id).HasOwner
}

// Contains reports whether token is part of the set.
func (s Set) Contains(token string) bool {
	for _, owner := range s {
		if owner == token {
			return true
		}
	}
	return false
}

// String renders the set as a comma-separated list.
func (s Set) String() string {
	return strings.Join(s, ",")
}
