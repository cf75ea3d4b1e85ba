// Package render paints the document onto the terminal. Every frame redraws
// every cell; nothing is remembered between frames.
package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"termnotes/buffer"
	"termnotes/config"
	"termnotes/cursor"
	"termnotes/layout"
)

const hints = "^S save  ^B retitle  M-q quit"

type Styles struct {
	Normal    tcell.Style
	Highlight tcell.Style
	Status    tcell.Style
}

func StylesFrom(ec config.EditorConfig) Styles {
	normal := tcell.StyleDefault.
		Foreground(tcell.GetColor(ec.NormalFg)).
		Background(tcell.GetColor(ec.NormalBg))
	highlight := tcell.StyleDefault.
		Foreground(tcell.GetColor(ec.HighlightFg)).
		Background(tcell.GetColor(ec.HighlightBg))
	return Styles{
		Normal:    normal,
		Highlight: highlight,
		Status:    highlight.Bold(true),
	}
}

type Renderer struct {
	screen tcell.Screen
	styles func() Styles
}

// New returns a renderer drawing on screen. styles is consulted on every
// frame so style changes show up on the next redraw.
func New(screen tcell.Screen, styles func() Styles) *Renderer {
	return &Renderer{screen: screen, styles: styles}
}

func (r *Renderer) Render(buf *buffer.Buffer, cur *cursor.Cursor, status string) {
	s := r.screen
	st := r.styles()
	s.HideCursor()

	var body layout.Dimensions
	flex := layout.Column(
		layout.FlexItemBox(func(d layout.Dimensions) {
			body = d
			r.drawRows(d, buf, st)
		}, layout.Max(layout.Rel(1)), nil),
		// the hints are dropped when the terminal is too narrow for them
		layout.FlexItemBox(layout.EmptyBox, layout.Exact(layout.Abs(1)), layout.Row(
			layout.FlexItemBox(func(d layout.Dimensions) {
				r.drawStatus(d, buf, cur, status, st)
			}, layout.Max(layout.Rel(1)), nil),
			layout.FlexItemBox(func(d layout.Dimensions) {
				r.drawLine(d.Origin.X, d.Origin.Y, d.Width, []rune(hints+" "), st.Status)
			}, layout.Exact(layout.Abs(runewidth.StringWidth(hints)+1)), nil),
		)),
	)
	flex.StartLayouting(s.Size())

	if cur.Y < body.Origin.Y+body.Height {
		s.ShowCursor(body.Origin.X+ScreenColumn(buf, cur), body.Origin.Y+cur.Y)
	}
	s.Show()
}

// ScreenColumn converts the cursor's rune column into a terminal column.
func ScreenColumn(buf *buffer.Buffer, cur *cursor.Cursor) int {
	rows := buf.Rows()
	if cur.Y < 0 || cur.Y >= len(rows) {
		return cur.X
	}
	text := rows[cur.Y].Text
	x := min(cur.X, len(text))
	return runewidth.StringWidth(string(text[:x])) + cur.X - x
}

func (r *Renderer) drawRows(d layout.Dimensions, buf *buffer.Buffer, st Styles) {
	rows := buf.Rows()
	for y := 0; y < d.Height; y++ {
		if y >= len(rows) {
			r.drawLine(d.Origin.X, d.Origin.Y+y, d.Width, nil, tcell.StyleDefault)
			continue
		}
		style := st.Normal
		if rows[y].Highlighted {
			style = st.Highlight
		}
		r.drawLine(d.Origin.X, d.Origin.Y+y, d.Width, rows[y].Text, style)
	}
}

func (r *Renderer) drawStatus(d layout.Dimensions, buf *buffer.Buffer, cur *cursor.Cursor, status string, st Styles) {
	left := fmt.Sprintf(" %s  %d:%d", buf.Header(), cur.Y-cursor.FirstContentRow+1, cur.X+1)
	if status != "" {
		left += "  " + status
	}
	for y := 0; y < d.Height; y++ {
		r.drawLine(d.Origin.X, d.Origin.Y+y, d.Width, []rune(left), st.Status)
	}
}

// drawLine paints text and clears the rest of the line with style.
func (r *Renderer) drawLine(x, y, width int, text []rune, style tcell.Style) {
	col := 0
	for _, c := range text {
		w := runewidth.RuneWidth(c)
		if w == 0 {
			w = 1
		}
		if col+w > width {
			break
		}
		r.screen.SetContent(x+col, y, c, nil, style)
		col += w
	}
	for ; col < width; col++ {
		r.screen.SetContent(x+col, y, ' ', nil, style)
	}
}
