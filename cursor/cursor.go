package cursor

// FirstContentRow is the topmost row the cursor may occupy. Rows above it
// hold the title and the blank separator.
const FirstContentRow = 2

type Cursor struct {
	X, Y int
}

func New() *Cursor {
	return &Cursor{X: 0, Y: FirstContentRow}
}

func (c *Cursor) MoveUp() {
	if c.Y > FirstContentRow {
		c.Y--
	}
}

func (c *Cursor) MoveDown(totalRows int) {
	if c.Y < totalRows-1 {
		c.Y++
	}
}

func (c *Cursor) MoveLeft() {
	if c.X > 0 {
		c.X--
	}
}

// MoveRight stops at rowLen, the position after the last character.
func (c *Cursor) MoveRight(rowLen int) {
	if c.X < rowLen {
		c.X++
	}
}

// ClampX pulls the column back onto a row that is shorter than the current
// column.
func (c *Cursor) ClampX(rowLen int) {
	if rowLen < 0 {
		rowLen = 0
	}
	if c.X > rowLen {
		c.X = rowLen
	}
}

func (c *Cursor) SetX(x int) {
	c.X = max(x, 0)
}
