package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/entitymap/pkg/mindmap"
	"github.com/matzehuels/entitymap/pkg/model"
)

// filterCommand creates the filter command and its subcommands.
func (c *CLI) filterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Pick which entity types the mindmap shows",
		Long: `Open an interactive picker of entity types. Selected types are saved and
used by render and click until changed. Selecting nothing shows every type.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFilterPicker(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(c.filterShowCommand())
	cmd.AddCommand(c.filterClearCommand())
	cmd.AddCommand(c.filterToggleCommand())

	return cmd
}

func (c *CLI) filterShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withFilter(cmd.Context(), func(st filterEnv) error {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, describeFilter(st.current, st.types()))
				for _, id := range st.current.IDs() {
					fmt.Fprintln(out, id)
				}
				return nil
			})
		},
	}
}

func (c *CLI) filterClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Show every type again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			vs, err := c.viewStore()
			if err != nil {
				return err
			}
			if err := vs.Delete(cmd.Context(), viewKey(cfg.Store)); err != nil {
				return err
			}
			printSuccess("Cleared filter")
			return nil
		},
	}
}

func (c *CLI) filterToggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "toggle TYPE_ID...",
		Short:             "Toggle type ids in the saved filter",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeTypeIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withFilter(cmd.Context(), func(st filterEnv) error {
				f := st.current
				for _, id := range args {
					if st.data.Type(id) == nil {
						printWarning("unknown type %q", id)
						continue
					}
					f = f.Toggle(id)
				}
				if err := st.save(f); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), describeFilter(f, st.types()))
				return nil
			})
		},
	}
}

func (c *CLI) runFilterPicker(ctx context.Context, in io.Reader, out io.Writer) error {
	return c.withFilter(ctx, func(st filterEnv) error {
		p := tea.NewProgram(NewFilterModel(st.types(), st.current),
			tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))
		final, err := p.Run()
		if err != nil {
			return fmt.Errorf("filter picker: %w", err)
		}
		m := final.(FilterModel)
		if !m.Saved {
			printInfo("Filter unchanged")
			return nil
		}
		if err := st.save(m.Filter); err != nil {
			return err
		}
		printSuccess("Saved filter: %s", describeFilter(m.Filter, st.types()))
		printNextStep("Render it", appName+" render")
		return nil
	})
}

// filterEnv is what the filter subcommands work on.
type filterEnv struct {
	data    *model.Data
	current mindmap.FilterState
	save    func(mindmap.FilterState) error
}

func (e filterEnv) types() []model.Type { return e.data.Types }

// withFilter loads the data and the saved filter, then runs fn.
func (c *CLI) withFilter(ctx context.Context, fn func(filterEnv) error) error {
	st, cfg, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	data, err := st.Load(ctx)
	if err != nil {
		return err
	}
	current, err := c.savedFilter(ctx, cfg, data)
	if err != nil {
		return err
	}
	return fn(filterEnv{
		data:    &data,
		current: current,
		save: func(f mindmap.FilterState) error {
			return c.saveFilter(ctx, cfg, f)
		},
	})
}
