// Package merge provides the merge command implementation.
package merge

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/modelmerge/internal/cmd/application"
	"github.com/agentstation/modelmerge/pkg/constants"
)

// Flags holds the merge command flags.
type Flags struct {
	Analyze    bool
	Provenance bool
	DryRun     bool
	Fields     []string
}

// NewCommand creates the merge command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:   "merge [input] [output]",
		Short: "Merge duplicate records into one record per base id",
		Args:  cobra.MaximumNArgs(2),
		Long: `Merge loads a catalog of model records, groups them by base id and
merges every duplicate pair into one canonical record.

For each pair the short-id record is the base. The vendor-qualified record
contributes its id, its price_per_sec when set, and any field the base is
missing or leaves empty. When both sides carry a non-empty list or object,
the vendor-qualified value wins. Schema fields (input_schema, output_schema,
schema_metadata, schema_parameters) are never taken from the
vendor-qualified record.

Records without a usable id are skipped. Groups with more than one
candidate in a slot are resolved by --policy.

Input and output may be JSON or YAML, chosen by file extension.`,
		Example: `  modelmerge merge                                   # Default input and output files
  modelmerge merge models.json merged.json           # Explicit paths
  modelmerge merge --analyze --dry-run               # Report only, write nothing
  modelmerge merge --provenance                      # Also write merged.provenance.yaml
  modelmerge merge --owners google,openai --policy reject`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, output := constants.DefaultInputFile, constants.DefaultOutputFile
			if len(args) > 0 {
				input = args[0]
			}
			if len(args) > 1 {
				output = args[1]
			}

			return ExecuteMerge(cmd.Context(), app, flags, cmd.Flags().Changed, input, output, cmd.OutOrStdout())
		},
	}

	flags = addMergeFlags(cmd)

	return cmd
}

// addMergeFlags adds merge-specific flags to the command.
func addMergeFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.Flags().BoolVar(&flags.Analyze, "analyze", false,
		"Report field differences between duplicate pairs before merging")
	cmd.Flags().BoolVar(&flags.Provenance, "provenance", false,
		"Record where every merged field came from and write it next to the output")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false,
		"Run the merge and print the summary without writing files")
	cmd.Flags().StringSliceVar(&flags.Fields, "fields", nil,
		"Limit the provenance table to matching fields (glob patterns)")

	return flags
}
