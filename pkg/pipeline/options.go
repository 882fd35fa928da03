package pipeline

import (
	"github.com/agentstation/modelmerge/pkg/errors"
	"github.com/agentstation/modelmerge/pkg/grouping"
	"github.com/agentstation/modelmerge/pkg/owners"
	"github.com/agentstation/modelmerge/pkg/reconciler"
)

// options configures a Pipeline.
type options struct {
	owners     owners.Set
	policy     grouping.Policy
	analyze    bool
	provenance bool
	resolver   []reconciler.Option
}

func defaultOptions() *options {
	return &options{
		owners:     owners.Default(),
		policy:     grouping.DefaultPolicy,
		analyze:    false,
		provenance: false,
	}
}

// Option is a function that configures a Pipeline.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithOwners sets the owner prefix set used to derive base ids.
func WithOwners(set owners.Set) Option {
	return func(o *options) error {
		if len(set) == 0 {
			return &errors.ValidationError{
				Field:   "owners",
				Message: "at least one owner token is required",
			}
		}
		o.owners = set
		return nil
	}
}

// WithPolicy sets the tie-break policy for slots with several candidates.
func WithPolicy(policy grouping.Policy) Option {
	return func(o *options) error {
		p, err := grouping.ParsePolicy(string(policy))
		if err != nil {
			return err
		}
		o.policy = p
		return nil
	}
}

// WithAnalysis enables the pair analysis report.
func WithAnalysis(enabled bool) Option {
	return func(o *options) error {
		o.analyze = enabled
		return nil
	}
}

// WithProvenance enables field-level merge decision tracking.
func WithProvenance(enabled bool) Option {
	return func(o *options) error {
		o.provenance = enabled
		return nil
	}
}

// WithResolver passes options through to the merge resolver.
func WithResolver(opts ...reconciler.Option) Option {
	return func(o *options) error {
		o.resolver = append(o.resolver, opts...)
		return nil
	}
}
