package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/entitymap/pkg/model"
)

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script. Entity and type ids complete from the
configured store.

  source <(entitymap completion bash)
  entitymap completion zsh > "${fpath[1]}/_entitymap"
  entitymap completion fish | source
  entitymap completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeEntityIDs offers the first argument as an entity id, described
// by "TypeName: EntityName".
func (c *CLI) completeEntityIDs(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return c.completeFrom(cmd, func(d *model.Data) []string {
		types := d.TypeIndex()
		out := make([]string, 0, len(d.Entities))
		for _, e := range d.Entities {
			desc := e.Name
			if t, ok := types[e.TypeID]; ok {
				desc = t.Name + ": " + e.Name
			}
			out = append(out, e.ID+"\t"+desc)
		}
		return out
	})
}

// completeTypeIDs offers type ids not already given.
func (c *CLI) completeTypeIDs(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	given := make(map[string]bool, len(args))
	for _, a := range args {
		given[a] = true
	}
	return c.completeFrom(cmd, func(d *model.Data) []string {
		var out []string
		for _, t := range d.Types {
			if !given[t.ID] {
				out = append(out, t.ID+"\t"+t.Name)
			}
		}
		return out
	})
}

// completeFrom loads the store and maps it to completions. Load errors
// yield no completions rather than noise in the shell.
func (c *CLI) completeFrom(cmd *cobra.Command, fn func(*model.Data) []string) ([]string, cobra.ShellCompDirective) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	st, _, err := c.openStore(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer st.Close()
	data, err := st.Load(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return fn(&data), cobra.ShellCompDirectiveNoFileComp
}
