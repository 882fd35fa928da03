// Package constants provides shared constants used throughout the modelmerge codebase.
// This includes default file names, permissions and the default owner tokens
// used when no owner set is configured.
package constants

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Default file names for the merge command.
const (
	// DefaultInputFile is read when no input path is given
	DefaultInputFile = "normalized_models_schema.json"

	// DefaultOutputFile is written when no output path is given
	DefaultOutputFile = "normalized_models_schema_merged.json"

	// ConfigFileName is the config file searched for in $HOME and the working directory
	ConfigFileName = ".modelmerge"
)

// Reporting limits
const (
	// ExampleFieldLimit caps how many field names are shown for the example pair
	ExampleFieldLimit = 5

	// DuplicateListLimit caps how many exact duplicates are listed in reports
	DuplicateListLimit = 5
)

// DefaultOwners returns the vendor tokens onboarded so far, in match order.
// A fresh slice is returned on every call.
func DefaultOwners() []string {
	return []string{
		"google",
		"openai",
		"bytedance",
		"wan",
		"minimax",
		"kwaivgi",
		"runwayml",
		"lightricks",
		"leonardoai",
		"character",
		"luma",
		"pixverse",
	}
}
