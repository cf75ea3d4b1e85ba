package buffer

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"

	"termnotes/cursor"
)

const (
	TitleRow     = 0
	SeparatorRow = 1
)

var ErrRowOutOfRange = errors.New("row out of range")

type Row struct {
	Text        []rune
	Highlighted bool
}

func (r Row) String() string {
	return string(r.Text)
}

// Buffer is the document: a title row, a blank separator row and the content
// rows below them. It always holds at least the two reserved rows.
type Buffer struct {
	rows   []Row
	header string
	width  int
}

func New(title string, content []string, width int) *Buffer {
	b := &Buffer{
		rows:  make([]Row, 2, len(content)+2),
		width: width,
	}
	b.Retitle(title)
	for _, line := range content {
		b.rows = append(b.rows, Row{Text: []rune(line)})
	}
	return b
}

// Retitle replaces the title row with a centered copy of title. The header
// becomes the padded title with every space removed, including the ones
// inside the title itself.
func (b *Buffer) Retitle(title string) {
	line := center(title, b.width)
	b.rows[TitleRow] = Row{Text: []rune(line)}
	b.header = HeaderFor(line)
}

// HeaderFor is the store key of a document titled title.
func HeaderFor(title string) string {
	return strings.Join(strings.Fields(title), "")
}

func center(title string, width int) string {
	pad := width/2 - 2*runewidth.StringWidth(title)
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + title
}

func (b *Buffer) Header() string {
	return b.header
}

// SetWidth records a new terminal width. The title is only re-centered on
// the next Retitle.
func (b *Buffer) SetWidth(width int) {
	b.width = width
}

func (b *Buffer) RowCount() int {
	return len(b.rows)
}

func (b *Buffer) RowLength(y int) (int, error) {
	if y < 0 || y >= len(b.rows) {
		return 0, fmt.Errorf("row %d of %d: %w", y, len(b.rows), ErrRowOutOfRange)
	}
	return len(b.rows[y].Text), nil
}

// Rows exposes the rows for drawing. Callers must not modify them.
func (b *Buffer) Rows() []Row {
	return b.rows
}

// ContentRows returns the text of every row below the separator.
func (b *Buffer) ContentRows() []string {
	lines := make([]string, 0, len(b.rows)-2)
	for _, row := range b.rows[2:] {
		lines = append(lines, string(row.Text))
	}
	return lines
}

func (b *Buffer) editable(y int) bool {
	return y >= cursor.FirstContentRow && y < len(b.rows)
}

func (b *Buffer) InsertChar(c rune, cur *cursor.Cursor) {
	if !b.editable(cur.Y) {
		return
	}
	row := &b.rows[cur.Y]
	x := min(cur.X, len(row.Text))
	row.Text = slices.Insert(row.Text, x, c)
	cur.MoveRight(len(row.Text))
}

// DeleteBefore erases the character left of the cursor. At column 0 nothing
// is erased and the cursor stays put.
func (b *Buffer) DeleteBefore(cur *cursor.Cursor) {
	if cur.X > 0 && b.editable(cur.Y) {
		row := &b.rows[cur.Y]
		if cur.X <= len(row.Text) {
			row.Text = slices.Delete(row.Text, cur.X-1, cur.X)
		}
	}
	cur.MoveLeft()
}

func (b *Buffer) DeleteAfter(cur *cursor.Cursor) {
	if !b.editable(cur.Y) {
		return
	}
	row := &b.rows[cur.Y]
	if cur.X < len(row.Text) {
		row.Text = slices.Delete(row.Text, cur.X, cur.X+1)
	}
}

// SplitRow opens an empty row below the cursor and moves onto it. Text right
// of the cursor stays where it is; it is not carried to the new row.
func (b *Buffer) SplitRow(cur *cursor.Cursor) {
	at := min(cur.Y+1, len(b.rows))
	at = max(at, cursor.FirstContentRow)
	b.rows = slices.Insert(b.rows, at, Row{Text: []rune{}})
	cur.MoveDown(len(b.rows))
	cur.SetX(0)
}

func (b *Buffer) HighlightRow(y int) {
	for i := range b.rows {
		b.rows[i].Highlighted = i == y
	}
}
