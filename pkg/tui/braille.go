package tui

// Each terminal cell holds a 2x4 braille dot grid.
const (
	dotsX = 2
	dotsY = 4
)

var dotBits = [dotsX][dotsY]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

type brailleBuf struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell 8-bit mask
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	for i := range m {
		m[i] = make([]uint8, w)
	}
	return &brailleBuf{w: w, h: h, m: m}
}

// set turns on the dot at dot coordinates (x, y).
func (b *brailleBuf) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cx, cy := x/dotsX, y/dotsY
	if cx >= b.w || cy >= b.h {
		return
	}
	b.m[cy][cx] |= dotBits[x%dotsX][y%dotsY]
}

// line draws a Bresenham line between two dots.
func (b *brailleBuf) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	// Lines far outside the canvas come from points just in front of the
	// eye; skip them rather than walking millions of dots.
	if dx > 8*b.w*dotsX || -dy > 8*b.h*dotsY {
		return
	}
	err := dx + dy
	for {
		b.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (b *brailleBuf) lines() [][]rune {
	out := make([][]rune, b.h)
	for y := 0; y < b.h; y++ {
		row := make([]rune, b.w)
		for x := 0; x < b.w; x++ {
			if mask := b.m[y][x]; mask == 0 {
				row[x] = ' '
			} else {
				row[x] = rune(0x2800 + int(mask))
			}
		}
		out[y] = row
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
