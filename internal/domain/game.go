package domain

// Game is the authoritative turn manager: it owns the board and whose turn it is.
type Game struct {
	Board         Board
	CurrentPlayer Player
	Status        GameState
	Moves         []int
	MoveCount     int
}

func NewGame() *Game {
	return &Game{
		Board:         NewBoard(),
		CurrentPlayer: X,
		Status:        Ongoing,
		Moves:         []int{},
	}
}

// NewGameFromBoard resumes a game from a snapshot. The move list is unknown and left empty.
func NewGameFromBoard(board Board, current Player) (*Game, error) {
	if !board.Valid() {
		return nil, ErrInvalidBoard
	}
	if current != X && current != O {
		return nil, ErrInvalidPlayer
	}
	return &Game{
		Board:         board,
		CurrentPlayer: current,
		Status:        board.State(),
		Moves:         []int{},
		MoveCount:     board.Count(),
	}, nil
}

func (g *Game) MakeMove(x, y, z int) error {
	if !InBounds(x, y, z) {
		return ErrOutOfBounds
	}
	return g.MakeMoveIndex(BitIndex(x, y, z))
}

func (g *Game) MakeMoveIndex(index int) error {
	if g.IsFinished() {
		return ErrGameOver
	}
	if !ValidIndex(index) {
		return ErrOutOfBounds
	}
	if !g.Board.IsCellEmpty(index) {
		return ErrCellOccupied
	}
	if g.CurrentPlayer != X && g.CurrentPlayer != O {
		return ErrInvalidPlayer
	}

	g.Board = g.Board.Place(index, g.CurrentPlayer)
	g.Moves = append(g.Moves, index)
	g.MoveCount++
	g.Status = g.Board.State()

	if g.Status == Ongoing {
		g.CurrentPlayer = g.CurrentPlayer.Opponent()
	}

	return nil
}

// Resign ends the game in favour of p's opponent.
func (g *Game) Resign(p Player) error {
	if g.IsFinished() {
		return ErrGameOver
	}
	switch p {
	case X:
		g.Status = OWins
	case O:
		g.Status = XWins
	default:
		return ErrInvalidPlayer
	}
	return nil
}

func (g *Game) State() GameState {
	return g.Status
}

func (g *Game) IsFinished() bool {
	return g.Status != Ongoing
}

func (g *Game) Winner() Player {
	return g.Status.Winner()
}

func (g *Game) LastMove() (int, bool) {
	if len(g.Moves) == 0 {
		return -1, false
	}
	return g.Moves[len(g.Moves)-1], true
}

func (g *Game) Reset() {
	g.Board = NewBoard()
	g.CurrentPlayer = X
	g.Status = Ongoing
	g.Moves = []int{}
	g.MoveCount = 0
}

func (g *Game) String() string {
	return g.Board.String()
}
