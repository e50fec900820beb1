package domain

// State classifies the board. A completed line takes precedence over a full board.
func (b Board) State() GameState {
	for _, mask := range WinLines {
		if b.XMask&mask == mask {
			return XWins
		}
		if b.OMask&mask == mask {
			return OWins
		}
	}

	if b.IsFull() {
		return Draw
	}

	return Ongoing
}

// WinningMask returns the first completed line, or 0 when nobody has four in a row.
func (b Board) WinningMask() uint64 {
	for _, mask := range WinLines {
		if b.XMask&mask == mask || b.OMask&mask == mask {
			return mask
		}
	}
	return 0
}

// HasWon reports whether p owns every cell of some line.
func (b Board) HasWon(p Player) bool {
	own := b.Mask(p)
	if own == 0 {
		return false
	}
	for _, mask := range WinLines {
		if own&mask == mask {
			return true
		}
	}
	return false
}

// IsTerminal is true once someone has won or no cell is left.
func (b Board) IsTerminal() bool {
	return b.State() != Ongoing
}
