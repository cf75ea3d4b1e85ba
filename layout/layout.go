package layout

import (
	"slices"
)

type Point struct {
	X, Y int
}

type Direction int

const (
	Y Direction = iota
	X
)

// Resolve dimensions for a box
type Dimensions struct {
	Origin        Point // TL corner
	Width, Height int
}

// LayoutBox draws into the area it was given.
type LayoutBox func(Dimensions)

func EmptyBox(Dimensions) {}

type Flex struct {
	Dir   Direction // direction of the main axis
	Items []FlexItem
}

func Column(items ...FlexItem) *Flex {
	return &Flex{Dir: Y, Items: items}
}

func Row(items ...FlexItem) *Flex {
	return &Flex{Dir: X, Items: items}
}

type FlexItem struct {
	Box  LayoutBox
	Flex *Flex
	Size Constraint
}

func FlexItemBox(box LayoutBox, size Constraint, flex *Flex) FlexItem {
	return FlexItem{Box: box, Size: size, Flex: flex}
}

type Constraint struct {
	Min, Max Size
}

func Exact(size Size) Constraint {
	return Constraint{Min: size, Max: size}
}

func Max(size Size) Constraint {
	return Constraint{Min: Abs(0), Max: size}
}

type Size struct {
	abs int     // absolute size
	rel float64 // [0, 1]
}

func Abs(abs int) Size {
	return Size{abs: abs}
}

func Rel(rel float64) Size {
	return Size{rel: rel}
}

func (s Size) toAbs(size int) int {
	if s.abs != 0 {
		return s.abs
	}
	return int(s.rel * float64(size))
}

func (f *Flex) StartLayouting(width, height int) []Dimensions {
	return f.Layout(Dimensions{Width: width, Height: height})
}

// Layout splits dim along the main axis. Every item first gets its minimum
// size; items whose minimum no longer fits are skipped. The remaining space
// is then shared equally, never growing an item beyond its maximum. The
// returned dimensions are in item order, zero for skipped items.
func (f *Flex) Layout(dim Dimensions) []Dimensions {
	total := dim.Height
	if f.Dir == X {
		total = dim.Width
	}

	sizes := make([]int, len(f.Items))
	fits := make([]bool, len(f.Items))
	remaining := total
	for i, item := range f.Items {
		least := item.Size.Min.toAbs(total)
		if least > remaining {
			continue
		}
		fits[i] = true
		sizes[i] = least
		remaining -= least
	}

	// grow the items with the least room first so their leftover can be
	// shared by the others
	order := make([]int, 0, len(f.Items))
	for i := range f.Items {
		if fits[i] {
			order = append(order, i)
		}
	}
	room := func(i int) int {
		return max(f.Items[i].Size.Max.toAbs(total)-sizes[i], 0)
	}
	slices.SortStableFunc(order, func(a, b int) int { return room(a) - room(b) })
	for n, i := range order {
		share := remaining / (len(order) - n)
		grow := min(room(i), share)
		sizes[i] += grow
		remaining -= grow
	}

	dims := make([]Dimensions, len(f.Items))
	orig := dim.Origin
	for i, item := range f.Items {
		if !fits[i] {
			continue
		}
		d := Dimensions{Origin: orig, Width: dim.Width, Height: sizes[i]}
		if f.Dir == X {
			d = Dimensions{Origin: orig, Width: sizes[i], Height: dim.Height}
			orig.X += sizes[i]
		} else {
			orig.Y += sizes[i]
		}
		dims[i] = d
		if item.Box != nil {
			item.Box(d)
		}
	}

	// recursively layout nested flex items
	for i, item := range f.Items {
		if fits[i] && item.Flex != nil {
			item.Flex.Layout(dims[i])
		}
	}
	return dims
}
