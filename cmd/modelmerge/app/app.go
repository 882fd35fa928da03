// Package app provides the application context and dependency management
// for the modelmerge CLI. It centralizes configuration, logging and the
// construction of reconciliation pipelines for the commands.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/modelmerge/internal/cmd/application"
	"github.com/agentstation/modelmerge/pkg/errors"
	"github.com/agentstation/modelmerge/pkg/grouping"
	"github.com/agentstation/modelmerge/pkg/owners"
	"github.com/agentstation/modelmerge/pkg/pipeline"
)

// App represents the modelmerge application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Validated owner set (lazy-initialized)
	mu     sync.RWMutex
	owners owners.Set
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// The app is initialized with configuration loaded from the environment
// that can be customized using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "failed to load configuration", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Owners returns the validated owner set, parsing it from configuration on
// first use. This is thread-safe.
func (a *App) Owners() (owners.Set, error) {
	a.mu.RLock()
	if a.owners != nil {
		set := a.owners
		a.mu.RUnlock()
		return set, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.owners != nil {
		return a.owners, nil
	}

	set, err := a.config.OwnerSet()
	if err != nil {
		return nil, errors.NewConfigError("owners", "invalid owner list", err)
	}
	a.owners = set
	return set, nil
}

// Pipeline builds a pipeline from the configuration. opts are applied last.
func (a *App) Pipeline(opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	set, err := a.Owners()
	if err != nil {
		return nil, err
	}

	policy, err := grouping.ParsePolicy(a.config.Policy)
	if err != nil {
		return nil, errors.NewConfigError("policy", "invalid tie-break policy", err)
	}

	configured := []pipeline.Option{
		pipeline.WithOwners(set),
		pipeline.WithPolicy(policy),
		pipeline.WithAnalysis(a.config.Analyze),
		pipeline.WithProvenance(a.config.Provenance),
	}
	return pipeline.New(append(configured, opts...)...)
}

// resetOwners drops the cached owner set after flags change the config.
func (a *App) resetOwners() {
	a.mu.Lock()
	a.owners = nil
	a.mu.Unlock()
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}
