// Package application provides the application interface for modelmerge commands.
//
// The Application interface defines the contract between the application layer and
// command implementations, enabling dependency injection and testability.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            p, err := app.Pipeline()
//	            if err != nil {
//	                return err
//	            }
//	            // ... run p
//	            return nil
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    PipelineFunc: func(opts ...pipeline.Option) (*pipeline.Pipeline, error) {
//	        return pipeline.New(opts...)
//	    },
//	}
//	cmd := merge.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/modelmerge/pkg/pipeline"
)

// Application provides the application interface that commands need.
// The App struct from cmd/modelmerge/app implements this interface.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Pipeline returns a pipeline configured from the application settings
	// (owners, policy, analysis, provenance). Options passed here are applied
	// after the configured ones and so take precedence.
	Pipeline(opts ...pipeline.Option) (*pipeline.Pipeline, error)

	// Logger returns the configured logger instance.
	// Commands should use this for all logging operations.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
