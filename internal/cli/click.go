package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/entitymap/pkg/client"
	"github.com/matzehuels/entitymap/pkg/errors"
	"github.com/matzehuels/entitymap/pkg/mindmap"
	"github.com/matzehuels/entitymap/pkg/model"
	"github.com/matzehuels/entitymap/pkg/render"
)

type clickOpts struct {
	x, y     float64
	types    []string
	typesSet bool
	width    float64
	height   float64
	yes      bool
	remote   string
	json     bool
}

// clickCommand creates the click command.
func (c *CLI) clickCommand() *cobra.Command {
	var typesStr string
	var opts clickOpts

	cmd := &cobra.Command{
		Use:   "click X Y",
		Short: "Resolve a click on the rendered mindmap",
		Long: `Resolve a click at canvas coordinates X Y against the mindmap rendered
with the same filter and viewport, and perform its action.

Clicking a card body opens it, the pencil edits it, the trash can deletes
it after confirmation.`,
		Example: `  entitymap click 812 344
  entitymap click 812 344 --yes --remote http://localhost:3000`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if opts.x, err = parseCoord("X", args[0]); err != nil {
				return err
			}
			if opts.y, err = parseCoord("Y", args[1]); err != nil {
				return err
			}
			opts.typesSet = cmd.Flags().Changed("types")
			opts.types = splitList(typesStr)
			return c.runClick(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&typesStr, "types", "", "comma-separated type ids (default: saved filter)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "viewport width (default from config)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "viewport height (default from config)")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "delete without asking")
	cmd.Flags().StringVar(&opts.remote, "remote", "", "server URL to load from and delete on")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the action as JSON")

	return cmd
}

func parseCoord(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be a number, got %q", name, s)
	}
	return v, nil
}

func (c *CLI) runClick(ctx context.Context, out io.Writer, opts clickOpts) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	var (
		data    model.Data
		deleter mindmap.Deleter
	)
	if opts.remote != "" {
		cl, err := client.New(opts.remote)
		if err != nil {
			return err
		}
		if data, err = cl.Data(ctx); err != nil {
			return err
		}
		deleter = cl
	} else {
		st, _, err := c.openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if data, err = st.Load(ctx); err != nil {
			return err
		}
		deleter = st
	}

	filter := mindmap.NewFilter(opts.types...)
	if !opts.typesSet {
		if filter, err = c.savedFilter(ctx, cfg, data); err != nil {
			return err
		}
	}

	var confirm mindmap.Confirmer = mindmap.AlwaysConfirm
	if !opts.yes {
		confirm = promptConfirm(c.In, out, &data)
	}
	var deleted bool
	cb := mindmap.Callbacks{
		Confirm:     confirm,
		Delete:      deleter,
		DataChanged: func() { deleted = true },
	}

	scene, err := render.Layout(ctx, mindmap.Input{
		Data:     data,
		Filter:   filter,
		Viewport: viewport(cfg, opts.width, opts.height),
	}, cb, c.Logger)
	if err != nil {
		return err
	}
	action, err := scene.Controller.Click(ctx, mindmap.Point{X: opts.x, Y: opts.y})
	if err != nil {
		return err
	}

	if opts.json {
		return json.NewEncoder(out).Encode(action)
	}
	fmt.Fprintln(out, describeAction(action, &data))
	if deleted {
		printSuccess("Deleted %s", action.NodeID)
	}
	return nil
}

// describeAction renders an action for humans, e.g. `open "Ada" (e1)`.
func describeAction(a mindmap.Action, data *model.Data) string {
	if a.NodeID == "" {
		return a.Kind.String()
	}
	name := a.NodeID
	if e := data.Entity(a.NodeID); e != nil {
		name = strconv.Quote(e.Name)
	}
	return fmt.Sprintf("%s %s (%s)", a.Kind, name, a.NodeID)
}

// promptConfirm asks on out and reads y/yes from in.
func promptConfirm(in io.Reader, out io.Writer, data *model.Data) mindmap.Confirmer {
	r := bufio.NewReader(in)
	return mindmap.ConfirmFunc(func(_ context.Context, id string) (bool, error) {
		name := id
		if e := data.Entity(id); e != nil {
			name = e.Name
		}
		fmt.Fprintf(out, "Delete %q? [y/N] ", name)
		line, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	})
}
