package domain

const NumWinLines = 76

// WinLines holds every four-in-a-row of the cube. Filled once at init, never written again.
var WinLines = generateWinLines()

func generateWinLines() [NumWinLines]uint64 {
	var lines [NumWinLines]uint64
	i := 0
	add := func(m uint64) {
		lines[i] = m
		i++
	}

	// straight lines along x, then y, then z
	for y := 0; y < Size; y++ {
		for z := 0; z < Size; z++ {
			var m uint64
			for x := 0; x < Size; x++ {
				m |= BitAt(x, y, z)
			}
			add(m)
		}
	}
	for x := 0; x < Size; x++ {
		for z := 0; z < Size; z++ {
			var m uint64
			for y := 0; y < Size; y++ {
				m |= BitAt(x, y, z)
			}
			add(m)
		}
	}
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			var m uint64
			for z := 0; z < Size; z++ {
				m |= BitAt(x, y, z)
			}
			add(m)
		}
	}

	// two diagonals per plane: XY planes, XZ planes, YZ planes
	for z := 0; z < Size; z++ {
		var m1, m2 uint64
		for d := 0; d < Size; d++ {
			m1 |= BitAt(d, d, z)
			m2 |= BitAt(d, Size-1-d, z)
		}
		add(m1)
		add(m2)
	}
	for y := 0; y < Size; y++ {
		var m1, m2 uint64
		for d := 0; d < Size; d++ {
			m1 |= BitAt(d, y, d)
			m2 |= BitAt(d, y, Size-1-d)
		}
		add(m1)
		add(m2)
	}
	for x := 0; x < Size; x++ {
		var m1, m2 uint64
		for d := 0; d < Size; d++ {
			m1 |= BitAt(x, d, d)
			m2 |= BitAt(x, d, Size-1-d)
		}
		add(m1)
		add(m2)
	}

	// space diagonals
	var m1, m2, m3, m4 uint64
	for d := 0; d < Size; d++ {
		m1 |= BitAt(d, d, d)
		m2 |= BitAt(d, d, Size-1-d)
		m3 |= BitAt(d, Size-1-d, d)
		m4 |= BitAt(Size-1-d, d, d)
	}
	add(m1)
	add(m2)
	add(m3)
	add(m4)

	return lines
}
