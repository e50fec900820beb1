package domain

import (
	"math/bits"
	"strings"
)

// Board is a 4x4x4 grid packed into one occupancy mask per player.
// Cell (x, y, z) lives at bit x + 4y + 16z.
type Board struct {
	XMask uint64
	OMask uint64
}

func NewBoard() Board {
	return Board{}
}

func BitIndex(x, y, z int) int {
	return x + Size*y + Size*Size*z
}

func BitAt(x, y, z int) uint64 {
	return uint64(1) << BitIndex(x, y, z)
}

// Coords is the inverse of BitIndex.
func Coords(index int) (x, y, z int) {
	return index % Size, (index / Size) % Size, index / (Size * Size)
}

func InBounds(x, y, z int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Size && z >= 0 && z < Size
}

func ValidIndex(index int) bool {
	return index >= 0 && index < NumCells
}

func (b Board) Occupied() uint64 {
	return b.XMask | b.OMask
}

func (b Board) EmptyCells() uint64 {
	return ^b.Occupied()
}

func (b Board) Count() int {
	return bits.OnesCount64(b.Occupied())
}

func (b Board) IsFull() bool {
	return b.Count() == NumCells
}

func (b Board) IsCellEmpty(index int) bool {
	return b.Occupied()&(uint64(1)<<index) == 0
}

// Valid reports whether no cell is owned by both players.
func (b Board) Valid() bool {
	return b.XMask&b.OMask == 0
}

func (b Board) Mask(p Player) uint64 {
	switch p {
	case X:
		return b.XMask
	case O:
		return b.OMask
	default:
		return 0
	}
}

func (b Board) CellAt(index int) Player {
	bit := uint64(1) << index
	switch {
	case b.XMask&bit != 0:
		return X
	case b.OMask&bit != 0:
		return O
	default:
		return None
	}
}

// Place returns a copy of the board with the cell at index set for p.
// The receiver is left untouched.
func (b Board) Place(index int, p Player) Board {
	bit := uint64(1) << index
	switch p {
	case X:
		b.XMask |= bit
	case O:
		b.OMask |= bit
	}
	return b
}

// Swap exchanges the two players' masks.
func (b Board) Swap() Board {
	return Board{XMask: b.OMask, OMask: b.XMask}
}

// String prints one 4x4 layer per z, rows by y, columns by x.
func (b Board) String() string {
	var sb strings.Builder
	for z := 0; z < Size; z++ {
		for y := 0; y < Size; y++ {
			for x := 0; x < Size; x++ {
				c := byte('.')
				switch b.CellAt(BitIndex(x, y, z)) {
				case X:
					c = 'X'
				case O:
					c = 'O'
				}
				sb.WriteByte(c)
				if x < Size-1 {
					sb.WriteByte(' ')
				}
			}
			sb.WriteByte('\n')
		}
		if z < Size-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// MaskToCells expands a mask into its cell indexes in increasing order.
func MaskToCells(mask uint64) []int {
	cells := make([]int, 0, bits.OnesCount64(mask))
	for mask != 0 {
		idx := bits.TrailingZeros64(mask)
		cells = append(cells, idx)
		mask &= mask - 1
	}
	return cells
}
