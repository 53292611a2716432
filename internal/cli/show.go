package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/entitymap/pkg/client"
	"github.com/matzehuels/entitymap/pkg/errors"
	"github.com/matzehuels/entitymap/pkg/model"
)

// showCommand creates the show command.
func (c *CLI) showCommand() *cobra.Command {
	var remote string

	cmd := &cobra.Command{
		Use:   "show ENTITY_ID",
		Short: "Print an entity with resolved links and backlinks",
		Example: `  entitymap show e1
  entitymap show e1 --remote http://localhost:3000`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeEntityIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runShow(cmd.Context(), cmd.OutOrStdout(), args[0], remote)
		},
	}

	cmd.Flags().StringVar(&remote, "remote", "", "server URL to read from")

	return cmd
}

func (c *CLI) runShow(ctx context.Context, out io.Writer, id, remote string) error {
	var (
		data      model.Data
		backlinks []model.Entity
	)
	if remote != "" {
		cl, err := client.New(remote)
		if err != nil {
			return err
		}
		if data, err = cl.Data(ctx); err != nil {
			return err
		}
		if data.Entity(id) == nil {
			return errors.New(errors.ErrCodeNotFound, "entity %q not found", id)
		}
		if backlinks, err = cl.Backlinks(ctx, id); err != nil {
			return err
		}
	} else {
		st, _, err := c.openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if data, err = st.Load(ctx); err != nil {
			return err
		}
		backlinks = data.Backlinks(id)
	}

	e := data.Entity(id)
	if e == nil {
		return errors.New(errors.ErrCodeNotFound, "entity %q not found", id)
	}
	fmt.Fprint(out, renderEntity(e, &data, backlinks))
	return nil
}

// renderEntity formats the full view of an entity: its attributes with
// links resolved, followed by everything that links to it.
func renderEntity(e *model.Entity, data *model.Data, backlinks []model.Entity) string {
	var b strings.Builder

	typeName := "Unknown"
	t := data.Type(e.TypeID)
	if t != nil {
		typeName = t.Name
	}
	b.WriteString(styleTitle.Render(e.Name))
	b.WriteString("\n")
	b.WriteString(styleDim.Render(typeName + " · " + e.ID))
	b.WriteString("\n")

	if t != nil && len(t.Attributes) > 0 {
		rows := make([][]string, 0, len(t.Attributes))
		for _, a := range t.Attributes {
			rows = append(rows, []string{a.Name, a.Display(e.Value(a.Name), data)})
		}
		attrs := t.Attributes
		headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
		tbl := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
			Headers("Attribute", "Value").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == -1 {
					return headerStyle
				}
				base := lipgloss.NewStyle().Padding(0, 1)
				if col == 0 || row >= len(attrs) {
					return base.Inherit(styleLabel)
				}
				switch {
				case attrs[row].Kind.IsLink():
					return base.Inherit(styleLink)
				case attrs[row].Kind.IsNumeric():
					return base.Inherit(styleNumber)
				}
				return base.Inherit(styleValue)
			})
		b.WriteString(tbl.Render())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styleTitle.Render("Backlinks"))
	b.WriteString("\n")
	if len(backlinks) == 0 {
		b.WriteString(styleDim.Render("  none"))
		b.WriteString("\n")
	}
	for _, bl := range backlinks {
		name := "Unknown"
		if bt := data.Type(bl.TypeID); bt != nil {
			name = bt.Name
		}
		fmt.Fprintf(&b, "  %s %s\n", arrow, styleValue.Render(name+": "+bl.Name))
	}
	return b.String()
}
