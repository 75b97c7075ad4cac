package pipes

// Openings are a 4-bit mask, clockwise from north.
const (
	north uint8 = 1 << iota
	east
	south
	west
)

var baseOpenings = map[Kind]uint8{
	Empty:    0,
	Endpoint: north,
	Straight: north | south,
	Corner:   north | east,
	Tee:      north | east | south,
	Cross:    north | east | south | west,
}

// rotateMask turns a mask clockwise by quarter turns.
func rotateMask(m uint8, quarters int) uint8 {
	quarters = ((quarters % 4) + 4) % 4
	for i := 0; i < quarters; i++ {
		m = ((m << 1) | (m >> 3)) & 0xF
	}
	return m
}

// opposite maps a single-direction mask to the facing direction.
func opposite(d uint8) uint8 { return rotateMask(d, 2) }

func openings(t Tile) uint8 {
	return rotateMask(baseOpenings[t.Kind], t.Rotation/90)
}

// neighbor returns the index adjacent to i in direction d, or -1 at the edge.
func (b Board) neighbor(i int, d uint8) int {
	r, c := i/b.Cols, i%b.Cols
	switch d {
	case north:
		r--
	case south:
		r++
	case east:
		c++
	case west:
		c--
	}
	if r < 0 || r >= b.Rows || c < 0 || c >= b.Cols {
		return -1
	}
	return r*b.Cols + c
}

// Connect recomputes Connected for every tile with a breadth-first walk from
// the source. Two tiles are linked when each has an opening facing the other.
func Connect(b Board) Board {
	next := b.Clone()
	for i := range next.Tiles {
		next.Tiles[i].Connected = false
	}
	if b.Source < 0 || b.Source >= len(next.Tiles) || next.Tiles[b.Source].Kind == Empty {
		return next
	}
	next.Tiles[b.Source].Connected = true
	queue := []int{b.Source}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		open := openings(next.Tiles[i])
		for _, d := range []uint8{north, east, south, west} {
			if open&d == 0 {
				continue
			}
			j := next.neighbor(i, d)
			if j < 0 || next.Tiles[j].Connected {
				continue
			}
			if openings(next.Tiles[j])&opposite(d) == 0 {
				continue
			}
			next.Tiles[j].Connected = true
			queue = append(queue, j)
		}
	}
	return next
}

// shapeFor returns the kind and rotation whose openings equal mask.
func shapeFor(mask uint8) (Kind, int) {
	for _, k := range []Kind{Endpoint, Straight, Corner, Tee, Cross} {
		for q := 0; q < 4; q++ {
			if rotateMask(baseOpenings[k], q) == mask {
				return k, q * 90
			}
		}
	}
	return Empty, 0
}
