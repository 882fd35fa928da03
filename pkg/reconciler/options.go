package reconciler

import (
	"strings"

	"github.com/agentstation/modelmerge/pkg/errors"
	"github.com/agentstation/modelmerge/pkg/records"
)

// options configures a Resolver.
type options struct {
	pricingField string
	protected    []string
	rules        []Rule
	provenance   bool
}

func defaultOptions() *options {
	return &options{
		pricingField: records.FieldPricePerSec,
		protected:    records.SchemaFields(),
		rules:        DefaultRules(),
		provenance:   false,
	}
}

// Option is a function that configures a Resolver.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// newOptions returns resolver options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithPricingField sets the field that takes owner-side precedence when truthy.
func WithPricingField(field string) Option {
	return func(o *options) error {
		if strings.TrimSpace(field) == "" {
			return &errors.ValidationError{
				Field:   "pricing_field",
				Message: "cannot be empty",
			}
		}
		o.pricingField = field
		return nil
	}
}

// WithProtectedFields replaces the protected schema field list.
func WithProtectedFields(fields ...string) Option {
	return func(o *options) error {
		if len(fields) == 0 {
			return &errors.ValidationError{
				Field:   "protected_fields",
				Message: "at least one protected field is required",
			}
		}
		for _, f := range fields {
			if strings.TrimSpace(f) == "" {
				return &errors.ValidationError{
					Field:   "protected_fields",
					Message: "field name cannot be empty",
				}
			}
			if f == records.FieldID {
				return &errors.ValidationError{
					Field:   "protected_fields",
					Value:   f,
					Message: "id is always taken from the owner-prefixed record",
				}
			}
		}
		o.protected = fields
		return nil
	}
}

// WithRules replaces the field precedence rules.
func WithRules(rules ...Rule) Option {
	return func(o *options) error {
		if len(rules) == 0 {
			return &errors.ValidationError{
				Field:   "rules",
				Message: "at least one rule is required",
			}
		}
		for _, rule := range rules {
			if rule.Name == "" || rule.Applies == nil {
				return &errors.ValidationError{
					Field:   "rules",
					Value:   rule.Name,
					Message: "rule needs a name and a predicate",
				}
			}
		}
		o.rules = rules
		return nil
	}
}

// WithProvenance enables field-level decision tracking.
func WithProvenance(enabled bool) Option {
	return func(o *options) error {
		o.provenance = enabled
		return nil
	}
}
