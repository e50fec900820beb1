package domain

import (
	"fmt"
	"time"
)

// GameSnapshot is the wire view of a game against the bot. Masks travel as decimal
// strings because browsers cannot hold a uint64 in a JSON number.
type GameSnapshot struct {
	GameID        string     `json:"gameId"`
	Username      string     `json:"username"`
	BotName       string     `json:"botName"`
	Difficulty    Difficulty `json:"difficulty"`
	HumanSide     string     `json:"humanSide"`
	XMask         uint64     `json:"xMask,string"`
	OMask         uint64     `json:"oMask,string"`
	CurrentPlayer string     `json:"currentPlayer"`
	State         string     `json:"state"`
	Winner        string     `json:"winner"`
	Reason        string     `json:"reason,omitempty"`
	WinningMask   uint64     `json:"winningMask,string"`
	WinningCells  []int      `json:"winningCells"`
	Moves         []int      `json:"moves"`
	MoveCount     int        `json:"moveCount"`
	LastBotMove   int        `json:"lastBotMove"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// GameRecord is what gets persisted once a game is over.
type GameRecord struct {
	GameID          string
	UserID          int64
	Username        string
	BotName         string
	Difficulty      Difficulty
	HumanSide       Player
	Winner          Player
	Reason          string
	TotalMoves      int
	DurationSeconds int
	XMask           uint64
	OMask           uint64
	Moves           []int
	CreatedAt       time.Time
	FinishedAt      time.Time
}

// HumanScore is the Elo score of the human side for this record.
func (r GameRecord) HumanScore() float64 {
	switch r.Winner {
	case r.HumanSide:
		return 1.0
	case None:
		return 0.5
	default:
		return 0.0
	}
}

type LiveGame struct {
	GameID         string     `json:"gameId"`
	Username       string     `json:"username"`
	BotName        string     `json:"botName"`
	Difficulty     Difficulty `json:"difficulty"`
	MoveCount      int        `json:"moveCount"`
	SpectatorCount int        `json:"spectatorCount"`
	StartedAt      string     `json:"startedAt"`
}

type ServerMessage struct {
	Type    string        `json:"type"`
	Message string        `json:"message,omitempty"`
	Game    *GameSnapshot `json:"game,omitempty"`
}

const (
	ReasonFourInARow = "four_in_a_row"
	ReasonDraw       = "board_full"
	ReasonResigned   = "resigned"
	ReasonAbandoned  = "abandoned"
)

// ProfileCacheKey is where a user's profile is cached. Finished games invalidate it.
func ProfileCacheKey(userID int64) string {
	return fmt.Sprintf("user_profile:%d", userID)
}
