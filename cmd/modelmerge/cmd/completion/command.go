// Package completion provides the completion command implementation.
package completion

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/modelmerge/internal/cmd/constants"
	"github.com/agentstation/modelmerge/pkg/errors"
)

// NewCommand creates the completion command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `To load completions:

Bash:

  $ source <(modelmerge completion bash)

Zsh:

  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  $ modelmerge completion zsh > "${fpath[1]}/_modelmerge"

Fish:

  $ modelmerge completion fish | source

PowerShell:

  PS> modelmerge completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             constants.Shells(),
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Generate(cmd.Root(), args[0], cmd.OutOrStdout())
		},
	}
}

// Generate writes the completion script for shell to w.
func Generate(root *cobra.Command, shell string, w io.Writer) error {
	var err error
	switch shell {
	case constants.ShellBash:
		err = root.GenBashCompletionV2(w, true)
	case constants.ShellZsh:
		err = root.GenZshCompletion(w)
	case constants.ShellFish:
		err = root.GenFishCompletion(w, true)
	case constants.ShellPowerShell:
		err = root.GenPowerShellCompletionWithDesc(w)
	default:
		return &errors.ValidationError{
			Field:   "shell",
			Value:   shell,
			Message: fmt.Sprintf("unsupported shell (supported: %v)", constants.Shells()),
		}
	}
	if err != nil {
		return errors.WrapIO("write", shell+" completion", err)
	}
	return nil
}
