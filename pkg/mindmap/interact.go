package mindmap

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/entitymap/pkg/errors"
	"github.com/matzehuels/entitymap/pkg/observability"
)

// ActionKind identifies what a click did.
type ActionKind int

// Click outcomes.
const (
	ActionNone ActionKind = iota
	ActionEdit
	ActionDelete
	ActionDeleteCancelled
	ActionOpen
)

func (k ActionKind) String() string {
	switch k {
	case ActionEdit:
		return "edit"
	case ActionDelete:
		return "delete"
	case ActionDeleteCancelled:
		return "delete-cancelled"
	case ActionOpen:
		return "open"
	default:
		return "none"
	}
}

// MarshalText encodes the kind by name.
func (k ActionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Action is the result of a click.
type Action struct {
	Kind   ActionKind `json:"action"`
	NodeID string     `json:"id,omitempty"`
}

// Confirmer asks whether an entity should really be deleted.
type Confirmer interface {
	Confirm(ctx context.Context, id string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, id string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, id string) (bool, error) { return f(ctx, id) }

// AlwaysConfirm approves every deletion.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// Deleter removes an entity from the backing data.
type Deleter interface {
	DeleteEntity(ctx context.Context, id string) error
}

// Callbacks receive the outcome of clicks. Nil funcs are skipped. A nil
// Confirm declines every deletion.
type Callbacks struct {
	Open        func(id string)
	Edit        func(id string)
	DataChanged func()

	Confirm Confirmer
	Delete  Deleter
}

// Controller resolves clicks against the nodes of one render.
type Controller struct {
	nodes  []Node
	cb     Callbacks
	logger *log.Logger
}

// NewController binds cb to nodes, which must already be arranged. Nodes are
// hit-tested last to first, the reverse of draw order.
func NewController(nodes []Node, cb Callbacks, logger *log.Logger) *Controller {
	if logger == nil {
		logger = discardLogger()
	}
	return &Controller{nodes: nodes, cb: cb, logger: logger}
}

// Hit returns the topmost node under p and the action a click there selects,
// without invoking any callback.
func (c *Controller) Hit(p Point) (Action, bool) {
	for i := len(c.nodes) - 1; i >= 0; i-- {
		n := c.nodes[i]
		btn := Buttons(n)
		switch {
		case btn.Edit.Contains(p):
			return Action{Kind: ActionEdit, NodeID: n.ID}, true
		case btn.Delete.Contains(p):
			return Action{Kind: ActionDelete, NodeID: n.ID}, true
		case n.Bounds().Contains(p):
			return Action{Kind: ActionOpen, NodeID: n.ID}, true
		}
	}
	return Action{Kind: ActionNone}, false
}

// Click resolves p and runs the matching callback.
//
// A delete click asks cb.Confirm first. When confirmed the entity is removed
// through cb.Delete and DataChanged fires. An entity that is already gone
// counts as deleted. Any other delete error is returned and DataChanged is
// not called.
func (c *Controller) Click(ctx context.Context, p Point) (Action, error) {
	action, _ := c.Hit(p)
	var err error
	switch action.Kind {
	case ActionEdit:
		if c.cb.Edit != nil {
			c.cb.Edit(action.NodeID)
		}
	case ActionOpen:
		if c.cb.Open != nil {
			c.cb.Open(action.NodeID)
		}
	case ActionDelete:
		action, err = c.delete(ctx, action.NodeID)
	}

	c.logger.Debug("click", "x", p.X, "y", p.Y, "action", action.Kind, "id", action.NodeID)
	observability.Layout().OnClick(ctx, action.Kind.String(), err)
	return action, err
}

func (c *Controller) delete(ctx context.Context, id string) (Action, error) {
	action := Action{Kind: ActionDeleteCancelled, NodeID: id}
	if c.cb.Confirm == nil {
		return action, nil
	}
	ok, err := c.cb.Confirm.Confirm(ctx, id)
	if err != nil {
		return action, fmt.Errorf("confirm delete %s: %w", id, err)
	}
	if !ok {
		return action, nil
	}

	if c.cb.Delete == nil {
		return action, errors.New(errors.ErrCodeUnsupported, "no deleter configured")
	}
	if err := c.cb.Delete.DeleteEntity(ctx, id); err != nil && !errors.IsNotFound(err) {
		return action, fmt.Errorf("delete %s: %w", id, err)
	}

	action.Kind = ActionDelete
	if c.cb.DataChanged != nil {
		c.cb.DataChanged()
	}
	return action, nil
}
