package input

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/gdamore/tcell/v2"

	"termnotes/buffer"
	"termnotes/commands"
	"termnotes/cursor"
)

func expectInt(a, b int, t *testing.T) {
	t.Helper()
	if a != b {
		t.Fatalf("expected %v, got %v", a, b)
	}
}

func expectString(a, b string, t *testing.T) {
	t.Helper()
	if a != b {
		t.Fatalf("expected '%v', got '%v'", a, b)
	}
}

func rowText(b *buffer.Buffer, y int) string {
	return b.Rows()[y].String()
}

type fixture struct {
	buf    *buffer.Buffer
	cur    *cursor.Cursor
	router *Router
	ran    []string
}

func newFixture(content ...string) *fixture {
	logger := log.New(io.Discard, "", 0)
	f := &fixture{
		buf: buffer.New("Foo", content, 80),
		cur: cursor.New(),
	}
	cmds := commands.NewCommands(logger)
	cmds.Register(CmdSave, func(context.Context) error { f.ran = append(f.ran, CmdSave); return nil })
	cmds.Register(CmdRetitle, func(context.Context) error {
		f.ran = append(f.ran, CmdRetitle)
		f.buf.Retitle("Banan")
		return nil
	})
	f.router = NewRouter(f.buf, f.cur, cmds, logger)
	return f
}

func (f *fixture) press(t *testing.T, k tcell.Key, r rune, mod tcell.ModMask) Result {
	t.Helper()
	res, err := f.router.Route(context.Background(), tcell.NewEventKey(k, r, mod))
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	return res
}

func (f *fixture) typeString(t *testing.T, s string) {
	t.Helper()
	for _, r := range s {
		f.press(t, tcell.KeyRune, r, tcell.ModNone)
	}
}

func TestTypingInsertsAtCursor(t *testing.T) {
	f := newFixture("")
	f.typeString(t, "hello")
	expectString("hello", rowText(f.buf, 2), t)
	expectInt(5, f.cur.X, t)
}

func TestRightStopsAtEndOfRow(t *testing.T) {
	f := newFixture("abcde")
	f.cur.X = 5
	res := f.press(t, tcell.KeyRight, 0, tcell.ModNone)
	expectString("right", res.Binding, t)
	expectInt(5, f.cur.X, t)
}

func TestLeftAndRightDoNotWrap(t *testing.T) {
	f := newFixture("ab", "cd")
	f.press(t, tcell.KeyLeft, 0, tcell.ModNone)
	expectInt(0, f.cur.X, t)
	expectInt(2, f.cur.Y, t)

	f.cur.X = 2
	f.press(t, tcell.KeyRight, 0, tcell.ModNone)
	expectInt(2, f.cur.X, t)
	expectInt(2, f.cur.Y, t)
}

func TestVerticalMovesClampColumn(t *testing.T) {
	f := newFixture("a long row", "ab", "another long row")
	f.cur.X = 8
	f.press(t, tcell.KeyDown, 0, tcell.ModNone)
	expectInt(3, f.cur.Y, t)
	expectInt(2, f.cur.X, t)

	f.press(t, tcell.KeyDown, 0, tcell.ModNone)
	expectInt(4, f.cur.Y, t)
	expectInt(2, f.cur.X, t)

	// bottom row: no move, no clamp against a row that does not exist
	f.cur.X = 10
	f.press(t, tcell.KeyDown, 0, tcell.ModNone)
	expectInt(4, f.cur.Y, t)
	expectInt(10, f.cur.X, t)

	f.press(t, tcell.KeyUp, 0, tcell.ModNone)
	expectInt(3, f.cur.Y, t)
	expectInt(2, f.cur.X, t)

	f.press(t, tcell.KeyUp, 0, tcell.ModNone)
	f.press(t, tcell.KeyUp, 0, tcell.ModNone)
	expectInt(2, f.cur.Y, t)
}

func TestBackspaceAtOrigin(t *testing.T) {
	f := newFixture("abc")
	res := f.press(t, tcell.KeyBackspace2, 0, tcell.ModNone)
	expectString("backspace", res.Binding, t)
	expectString("abc", rowText(f.buf, 2), t)
	expectInt(0, f.cur.X, t)
	expectInt(2, f.cur.Y, t)
}

func TestBackspaceAndDelete(t *testing.T) {
	f := newFixture("abcd")
	f.cur.X = 2
	f.press(t, tcell.KeyBackspace, 0, tcell.ModNone)
	expectString("acd", rowText(f.buf, 2), t)
	expectInt(1, f.cur.X, t)

	f.press(t, tcell.KeyDelete, 0, tcell.ModNone)
	expectString("ad", rowText(f.buf, 2), t)
	expectInt(1, f.cur.X, t)
}

func TestEnterSplitsWithoutCarry(t *testing.T) {
	f := newFixture("abcdef")
	f.cur.X = 3
	f.press(t, tcell.KeyEnter, 0, tcell.ModNone)
	expectInt(4, f.buf.RowCount(), t)
	expectString("abcdef", rowText(f.buf, 2), t)
	expectString("", rowText(f.buf, 3), t)
	expectInt(3, f.cur.Y, t)
	expectInt(0, f.cur.X, t)
}

func TestAltQStops(t *testing.T) {
	f := newFixture("")
	res := f.press(t, tcell.KeyRune, 'q', tcell.ModAlt)
	if !res.Stop {
		t.Fatalf("alt+q must stop the loop")
	}
	expectString("", rowText(f.buf, 2), t)

	// plain q is just a character
	res = f.press(t, tcell.KeyRune, 'q', tcell.ModNone)
	if res.Stop {
		t.Fatalf("plain q must not stop the loop")
	}
	expectString("q", rowText(f.buf, 2), t)
}

func TestCtrlSSaves(t *testing.T) {
	f := newFixture("")
	res := f.press(t, tcell.KeyCtrlS, 0, tcell.ModCtrl)
	expectString(CmdSave, res.Binding, t)
	if len(f.ran) != 1 || f.ran[0] != CmdSave {
		t.Fatalf("expected save command, ran %v", f.ran)
	}
	expectString("", rowText(f.buf, 2), t)

	f.press(t, tcell.KeyRune, 's', tcell.ModCtrl)
	if len(f.ran) != 2 {
		t.Fatalf("ctrl+s as rune should also save, ran %v", f.ran)
	}
}

func TestCtrlAltSInsertsInsteadOfSaving(t *testing.T) {
	f := newFixture("")
	res := f.press(t, tcell.KeyCtrlS, 0, tcell.ModCtrl|tcell.ModAlt)
	expectString("insert", res.Binding, t)
	if len(f.ran) != 0 {
		t.Fatalf("ctrl+alt+s must not save, ran %v", f.ran)
	}
	expectString("s", rowText(f.buf, 2), t)
}

func TestUnboundCtrlLetterInsertsLetter(t *testing.T) {
	f := newFixture("")
	// a raw 0x01 byte, as the terminal reports Ctrl+A
	res := f.press(t, tcell.KeyRune, 1, tcell.ModNone)
	expectString("insert", res.Binding, t)
	f.press(t, tcell.KeyCtrlZ, 0, tcell.ModCtrl)
	expectString("az", rowText(f.buf, 2), t)
	expectInt(2, f.cur.X, t)
}

func TestControlCodesOfEditingKeysDoNotInsert(t *testing.T) {
	f := newFixture("ab")
	f.cur.X = 2
	// Ctrl+H is Backspace
	res := f.press(t, tcell.KeyCtrlH, 0, tcell.ModCtrl)
	expectString("", res.Binding, t)
	// Tab and Ctrl+I share a code
	res = f.press(t, tcell.KeyTab, 0, tcell.ModNone)
	expectString("", res.Binding, t)
	expectString("ab", rowText(f.buf, 2), t)
}

func TestCtrlBRetitles(t *testing.T) {
	f := newFixture("")
	f.press(t, tcell.KeyCtrlB, 0, tcell.ModCtrl)
	expectString("Banan", f.buf.Header(), t)
}

func TestModifiedEditingKeysAreIgnored(t *testing.T) {
	f := newFixture("abc")
	f.cur.X = 1
	res := f.press(t, tcell.KeyLeft, 0, tcell.ModShift)
	expectString("", res.Binding, t)
	expectInt(1, f.cur.X, t)

	res = f.press(t, tcell.KeyDelete, 0, tcell.ModCtrl)
	expectString("", res.Binding, t)
	expectString("abc", rowText(f.buf, 2), t)
}

func TestUnboundKeyIsNoop(t *testing.T) {
	f := newFixture("abc")
	res := f.press(t, tcell.KeyF1, 0, tcell.ModNone)
	if res.Binding != "" || res.Stop {
		t.Fatalf("unexpected result %+v", res)
	}
	expectString("abc", rowText(f.buf, 2), t)
}

func TestCommandErrorPropagates(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	buf := buffer.New("Foo", []string{""}, 80)
	cmds := commands.NewCommands(logger)
	boom := errors.New("offline")
	cmds.Register(CmdSave, func(context.Context) error { return boom })
	r := NewRouter(buf, cursor.New(), cmds, logger)

	_, err := r.Route(context.Background(), tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl))
	if !errors.Is(err, boom) {
		t.Fatalf("expected save error, got %v", err)
	}
}

func TestMovesOnEmptyDocument(t *testing.T) {
	f := newFixture()
	for _, k := range []tcell.Key{tcell.KeyUp, tcell.KeyDown, tcell.KeyLeft, tcell.KeyRight} {
		f.press(t, k, 0, tcell.ModNone)
	}
	expectInt(0, f.cur.X, t)
	expectInt(2, f.cur.Y, t)
}

func TestInsertThenBackspaceRestoresRow(t *testing.T) {
	f := newFixture("hello")
	f.cur.X = 3
	f.press(t, tcell.KeyRune, 'Z', tcell.ModShift)
	expectString("helZlo", rowText(f.buf, 2), t)
	f.press(t, tcell.KeyBackspace2, 0, tcell.ModNone)
	expectString("hello", rowText(f.buf, 2), t)
	expectInt(3, f.cur.X, t)
}
