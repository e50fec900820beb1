package domain

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var BotNames = map[Difficulty]string{
	DifficultyEasy:   "Alice",
	DifficultyMedium: "Bob",
	DifficultyHard:   "Charles",
}

// bot ratings used for the Elo update after a finished game
var BotRatings = map[Difficulty]int{
	DifficultyEasy:   800,
	DifficultyMedium: 1200,
	DifficultyHard:   1600,
}

func GetBotName(difficulty Difficulty) string {
	if name, ok := BotNames[difficulty]; ok {
		return name
	}
	return "BOT"
}

func GetBotRating(difficulty Difficulty) int {
	if rating, ok := BotRatings[difficulty]; ok {
		return rating
	}
	return BotRatings[DifficultyMedium]
}

// ParseDifficulty falls back to medium for anything it does not recognise.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s)
	default:
		return DifficultyMedium
	}
}

type Player int

const (
	None Player = 0
	X    Player = 1
	O    Player = 2
)

func (p Player) Opponent() Player {
	switch p {
	case X:
		return O
	case O:
		return X
	default:
		return None
	}
}

func (p Player) String() string {
	switch p {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return "none"
	}
}

// ParsePlayer accepts "X"/"O" (any case) as well as the numeric 1/2 encoding.
func ParsePlayer(s string) (Player, error) {
	switch s {
	case "X", "x", "1":
		return X, nil
	case "O", "o", "2":
		return O, nil
	default:
		return None, ErrInvalidPlayer
	}
}

const (
	Size     = 4
	NumCells = Size * Size * Size
)

type GameState int

const (
	Ongoing GameState = iota
	Draw
	XWins
	OWins
)

func (s GameState) String() string {
	switch s {
	case Draw:
		return "draw"
	case XWins:
		return "x_wins"
	case OWins:
		return "o_wins"
	default:
		return "ongoing"
	}
}

// Winner maps a terminal state to the player that won it.
func (s GameState) Winner() Player {
	switch s {
	case XWins:
		return X
	case OWins:
		return O
	default:
		return None
	}
}

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrOutOfBounds   Error = "coordinates out of bounds"
	ErrCellOccupied  Error = "cell is already occupied"
	ErrGameOver      Error = "game is already over"
	ErrNotYourTurn   Error = "not your turn"
	ErrInvalidPlayer Error = "invalid player"
	ErrInvalidBoard  Error = "invalid board: a cell is owned by both players"

	ErrSessionNotFound Error = "game session not found"
	ErrNotYourGame     Error = "game belongs to another player"
)
