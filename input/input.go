// Package input turns key events into edits. Bindings are tried in a fixed
// order and the first one that matches handles the event.
package input

import (
	"context"
	"log"

	"github.com/gdamore/tcell/v2"

	"termnotes/buffer"
	"termnotes/commands"
	"termnotes/cursor"
)

const (
	CmdSave    = "save"
	CmdRetitle = "retitle"
)

type Binding struct {
	Name  string
	Match func(ev *tcell.EventKey) bool
	// Apply handles the event. Returning stop ends the editor loop.
	Apply func(ctx context.Context, r *Router, ev *tcell.EventKey) (stop bool, err error)
}

type Result struct {
	Binding string // empty when no binding matched
	Stop    bool
}

type Router struct {
	buf      *buffer.Buffer
	cur      *cursor.Cursor
	commands *commands.Commands
	bindings []Binding

	log *log.Logger
}

func NewRouter(buf *buffer.Buffer, cur *cursor.Cursor, cmds *commands.Commands, log *log.Logger) *Router {
	return &Router{
		buf:      buf,
		cur:      cur,
		commands: cmds,
		bindings: DefaultBindings(),
		log:      log,
	}
}

func (r *Router) Route(ctx context.Context, ev *tcell.EventKey) (Result, error) {
	for _, b := range r.bindings {
		if !b.Match(ev) {
			continue
		}
		stop, err := b.Apply(ctx, r, ev)
		return Result{Binding: b.Name, Stop: stop}, err
	}
	return Result{}, nil
}

func key(k tcell.Key) func(*tcell.EventKey) bool {
	return func(ev *tcell.EventKey) bool {
		return ev.Key() == k && ev.Modifiers() == tcell.ModNone
	}
}

func anyKey(keys ...tcell.Key) func(*tcell.EventKey) bool {
	return func(ev *tcell.EventKey) bool {
		for _, k := range keys {
			if ev.Key() == k && ev.Modifiers() == tcell.ModNone {
				return true
			}
		}
		return false
	}
}

// ctrl matches Ctrl+c whether the terminal reports it as a control code or
// as a rune with the Ctrl modifier. Alt must not be held.
func ctrl(c rune, k tcell.Key) func(*tcell.EventKey) bool {
	return func(ev *tcell.EventKey) bool {
		if ev.Key() == k {
			return ev.Modifiers()&tcell.ModAlt == 0
		}
		return ev.Key() == tcell.KeyRune && ev.Rune() == c && ev.Modifiers() == tcell.ModCtrl
	}
}

// typed returns the character a key event stands for. Ctrl+letter arrives as
// a control code and maps back to its letter. Tab, Enter and Backspace share
// their codes with Ctrl+I, Ctrl+M and Ctrl+H and are not characters.
func typed(ev *tcell.EventKey) (rune, bool) {
	switch k := ev.Key(); {
	case k == tcell.KeyRune:
		return ev.Rune(), true
	case k == tcell.KeyCtrlH, k == tcell.KeyCtrlI, k == tcell.KeyCtrlM:
		return 0, false
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return 'a' + rune(k-tcell.KeyCtrlA), true
	default:
		return 0, false
	}
}

func alt(c rune) func(*tcell.EventKey) bool {
	return func(ev *tcell.EventKey) bool {
		return ev.Key() == tcell.KeyRune && ev.Rune() == c && ev.Modifiers() == tcell.ModAlt
	}
}

func DefaultBindings() []Binding {
	return []Binding{
		{Name: "left", Match: key(tcell.KeyLeft), Apply: moveLeft},
		{Name: "right", Match: key(tcell.KeyRight), Apply: moveRight},
		{Name: "up", Match: key(tcell.KeyUp), Apply: moveUp},
		{Name: "down", Match: key(tcell.KeyDown), Apply: moveDown},
		{Name: "split", Match: key(tcell.KeyEnter), Apply: split},
		{Name: "backspace", Match: anyKey(tcell.KeyBackspace, tcell.KeyBackspace2), Apply: backspace},
		{Name: "delete", Match: key(tcell.KeyDelete), Apply: del},
		{Name: "quit", Match: alt('q'), Apply: quit},
		{Name: CmdSave, Match: ctrl('s', tcell.KeyCtrlS), Apply: command(CmdSave)},
		{Name: CmdRetitle, Match: ctrl('b', tcell.KeyCtrlB), Apply: command(CmdRetitle)},
		{Name: "insert", Match: func(ev *tcell.EventKey) bool { _, ok := typed(ev); return ok }, Apply: insert},
	}
}

func moveLeft(_ context.Context, r *Router, _ *tcell.EventKey) (bool, error) {
	r.cur.MoveLeft()
	return false, nil
}

func moveRight(_ context.Context, r *Router, _ *tcell.EventKey) (bool, error) {
	if n, err := r.buf.RowLength(r.cur.Y); err == nil {
		r.cur.MoveRight(n)
	}
	return false, nil
}

// clampTo pulls the column onto row y before a vertical move. A failed
// lookup leaves the column as it is.
func (r *Router) clampTo(y int) {
	n, err := r.buf.RowLength(y)
	switch {
	case err != nil:
		r.log.Printf("No clamp for row %d: %v", y, err)
	default:
		r.cur.ClampX(n)
	}
}

func moveUp(_ context.Context, r *Router, _ *tcell.EventKey) (bool, error) {
	if r.cur.Y > cursor.FirstContentRow {
		r.clampTo(r.cur.Y - 1)
	}
	r.cur.MoveUp()
	return false, nil
}

func moveDown(_ context.Context, r *Router, _ *tcell.EventKey) (bool, error) {
	if r.cur.Y < r.buf.RowCount()-1 {
		r.clampTo(r.cur.Y + 1)
	}
	r.cur.MoveDown(r.buf.RowCount())
	return false, nil
}

func split(_ context.Context, r *Router, _ *tcell.EventKey) (bool, error) {
	r.buf.SplitRow(r.cur)
	return false, nil
}

func backspace(_ context.Context, r *Router, _ *tcell.EventKey) (bool, error) {
	r.buf.DeleteBefore(r.cur)
	return false, nil
}

func del(_ context.Context, r *Router, _ *tcell.EventKey) (bool, error) {
	r.buf.DeleteAfter(r.cur)
	return false, nil
}

func quit(context.Context, *Router, *tcell.EventKey) (bool, error) {
	return true, nil
}

func command(name string) func(context.Context, *Router, *tcell.EventKey) (bool, error) {
	return func(ctx context.Context, r *Router, _ *tcell.EventKey) (bool, error) {
		return false, r.commands.Exec(ctx, name)
	}
}

func insert(_ context.Context, r *Router, ev *tcell.EventKey) (bool, error) {
	c, _ := typed(ev)
	r.buf.InsertChar(c, r.cur)
	return false, nil
}
