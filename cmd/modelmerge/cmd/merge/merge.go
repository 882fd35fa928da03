package merge

import (
	"context"
	"io"

	"github.com/agentstation/modelmerge/internal/cmd/application"
	"github.com/agentstation/modelmerge/internal/persistence"
	"github.com/agentstation/modelmerge/pkg/logging"
	"github.com/agentstation/modelmerge/pkg/pipeline"
	"github.com/agentstation/modelmerge/pkg/provenance"
)

// ExecuteMerge loads input, reconciles it and writes the merged records to
// output unless this is a dry run. changed reports whether a flag was set
// explicitly; unset flags fall back to the application configuration.
func ExecuteMerge(ctx context.Context, app application.Application, flags *Flags, changed func(string) bool, input, output string, w io.Writer) error {
	logger := app.Logger()
	ctx = logging.WithLogger(ctx, logger)

	recs, err := persistence.Load(input)
	if err != nil {
		return err
	}
	logger.Info().Str("input", input).Int("records", len(recs)).Msg("Loaded records")

	var opts []pipeline.Option
	if changed("analyze") {
		opts = append(opts, pipeline.WithAnalysis(flags.Analyze))
	}
	if changed("provenance") {
		opts = append(opts, pipeline.WithProvenance(flags.Provenance))
	}

	p, err := app.Pipeline(opts...)
	if err != nil {
		return err
	}

	result, err := p.Run(ctx, recs)
	if err != nil {
		return err
	}

	written := ""
	provenancePath := ""
	if flags.DryRun {
		logger.Info().Bool("dry_run", true).Msg("Dry run completed - no files written")
	} else {
		if err := persistence.Save(output, result.Records); err != nil {
			return err
		}
		written = output
		logger.Info().Str("output", output).Int("records", len(result.Records)).Msg("Saved merged records")

		if result.Provenance != nil {
			provenancePath = provenance.PathFor(output)
			pf := &provenance.ProvenanceFile{RunID: result.RunID, Provenance: result.Provenance}
			if err := provenance.Save(provenancePath, pf); err != nil {
				return err
			}
			logger.Info().Str("path", provenancePath).Msg("Saved provenance")
		}
	}

	return displayResults(w, app.OutputFormat(), &Report{
		RunID:      result.RunID,
		Input:      input,
		Output:     written,
		Provenance: provenancePath,
		DryRun:     flags.DryRun,
		Summary:    result.Summary,
		Sources:    result.Provenance.Counts(),
		Collisions: result.Collisions,
		Analysis:   result.Analysis,
		decisions:  result.Provenance,
		fields:     flags.Fields,
	})
}
