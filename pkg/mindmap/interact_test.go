package mindmap

import (
	"context"
	"errors"
	"testing"

	entityerrors "github.com/matzehuels/entitymap/pkg/errors"
)

type fakeDeleter struct {
	calls []string
	err   error
}

func (d *fakeDeleter) DeleteEntity(_ context.Context, id string) error {
	d.calls = append(d.calls, id)
	return d.err
}

type clickLog struct {
	opened, edited []string
	changed        int
	confirms       []string
}

func (l *clickLog) callbacks(confirm bool, d Deleter) Callbacks {
	return Callbacks{
		Open:        func(id string) { l.opened = append(l.opened, id) },
		Edit:        func(id string) { l.edited = append(l.edited, id) },
		DataChanged: func() { l.changed++ },
		Confirm: ConfirmFunc(func(_ context.Context, id string) (bool, error) {
			l.confirms = append(l.confirms, id)
			return confirm, nil
		}),
		Delete: d,
	}
}

func singleNode() []Node {
	return []Node{{ID: "a", X: 200, Y: 100, Width: NodeWidth, Height: MinNodeHeight}}
}

func TestClickDeleteConfirmed(t *testing.T) {
	var l clickLog
	d := &fakeDeleter{}
	ctrl := NewController(singleNode(), l.callbacks(true, d), nil)

	action, err := ctrl.Click(context.Background(), Buttons(singleNode()[0]).Delete.Center())
	if err != nil {
		t.Fatal(err)
	}
	if action != (Action{Kind: ActionDelete, NodeID: "a"}) {
		t.Errorf("action = %+v", action)
	}
	if len(l.confirms) != 1 || len(d.calls) != 1 || d.calls[0] != "a" || l.changed != 1 {
		t.Errorf("confirms=%v deletes=%v changed=%d", l.confirms, d.calls, l.changed)
	}
	if len(l.opened)+len(l.edited) != 0 {
		t.Errorf("unexpected open/edit: %v %v", l.opened, l.edited)
	}
}

func TestClickDeleteDeclined(t *testing.T) {
	var l clickLog
	d := &fakeDeleter{}
	ctrl := NewController(singleNode(), l.callbacks(false, d), nil)

	action, err := ctrl.Click(context.Background(), Buttons(singleNode()[0]).Delete.Center())
	if err != nil {
		t.Fatal(err)
	}
	if action.Kind != ActionDeleteCancelled {
		t.Errorf("action = %v", action.Kind)
	}
	if len(d.calls) != 0 || l.changed != 0 {
		t.Errorf("deletes=%v changed=%d", d.calls, l.changed)
	}
}

func TestClickDeleteFailure(t *testing.T) {
	var l clickLog
	d := &fakeDeleter{err: errors.New("connection refused")}
	ctrl := NewController(singleNode(), l.callbacks(true, d), nil)

	_, err := ctrl.Click(context.Background(), Buttons(singleNode()[0]).Delete.Center())
	if err == nil {
		t.Fatal("expected error")
	}
	if l.changed != 0 {
		t.Errorf("DataChanged called %d times after failure", l.changed)
	}
}

func TestClickDeleteAlreadyGone(t *testing.T) {
	var l clickLog
	d := &fakeDeleter{err: entityerrors.New(entityerrors.ErrCodeEntityNotFound, "entity %q not found", "a")}
	ctrl := NewController(singleNode(), l.callbacks(true, d), nil)

	action, err := ctrl.Click(context.Background(), Buttons(singleNode()[0]).Delete.Center())
	if err != nil {
		t.Fatalf("not-found delete should succeed: %v", err)
	}
	if action.Kind != ActionDelete || l.changed != 1 {
		t.Errorf("action=%v changed=%d", action.Kind, l.changed)
	}
}

func TestClickWithoutConfirmerCancels(t *testing.T) {
	d := &fakeDeleter{}
	ctrl := NewController(singleNode(), Callbacks{Delete: d}, nil)
	action, err := ctrl.Click(context.Background(), Buttons(singleNode()[0]).Delete.Center())
	if err != nil || action.Kind != ActionDeleteCancelled || len(d.calls) != 0 {
		t.Errorf("action=%v err=%v deletes=%v", action.Kind, err, d.calls)
	}
}

func TestClickTargets(t *testing.T) {
	n := singleNode()[0]
	btn := Buttons(n)
	b := n.Bounds()

	tests := []struct {
		name string
		p    Point
		want ActionKind
	}{
		{"edit center", btn.Edit.Center(), ActionEdit},
		{"edit top-left corner", Point{btn.Edit.X, btn.Edit.Y}, ActionEdit},
		{"gap between buttons opens", Point{btn.Edit.Right() + ButtonGap/2, btn.Edit.Y + 5}, ActionOpen},
		{"body", Point{b.X + 20, b.Bottom() - 20}, ActionOpen},
		{"card bottom-right corner", Point{b.Right(), b.Bottom()}, ActionOpen},
		{"outside", Point{b.X - 1, b.Y}, ActionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l clickLog
			ctrl := NewController(singleNode(), l.callbacks(true, &fakeDeleter{}), nil)
			action, err := ctrl.Click(context.Background(), tt.p)
			if err != nil {
				t.Fatal(err)
			}
			if action.Kind != tt.want {
				t.Errorf("Click(%v) = %v, want %v", tt.p, action.Kind, tt.want)
			}
			switch tt.want {
			case ActionEdit:
				if len(l.edited) != 1 {
					t.Errorf("edited = %v", l.edited)
				}
			case ActionOpen:
				if len(l.opened) != 1 {
					t.Errorf("opened = %v", l.opened)
				}
			case ActionNone:
				if len(l.opened)+len(l.edited)+len(l.confirms) != 0 {
					t.Error("callbacks fired for a miss")
				}
			}
		})
	}
}

func TestClickTopmostWins(t *testing.T) {
	nodes := []Node{
		{ID: "under", X: 200, Y: 100, Width: NodeWidth, Height: MinNodeHeight},
		{ID: "over", X: 260, Y: 120, Width: NodeWidth, Height: MinNodeHeight},
	}
	var l clickLog
	ctrl := NewController(nodes, l.callbacks(true, &fakeDeleter{}), nil)

	action, _ := ctrl.Click(context.Background(), Point{X: 200, Y: 120})
	if action.NodeID != "over" {
		t.Errorf("clicked %s, want over", action.NodeID)
	}
}

func TestActionKindString(t *testing.T) {
	kinds := map[ActionKind]string{
		ActionNone: "none", ActionEdit: "edit", ActionDelete: "delete",
		ActionDeleteCancelled: "delete-cancelled", ActionOpen: "open",
	}
	for k, want := range kinds {
		if k.String() != want {
			t.Errorf("%d.String() = %q, want %q", k, k.String(), want)
		}
	}
}
