package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iamasit07/qubic/backend/internal/domain"
)

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

// GameResult is a finished game as read back from the database
type GameResult struct {
	GameID          string            `json:"gameId"`
	UserID          int64             `json:"userId"`
	Username        string            `json:"username"`
	BotName         string            `json:"botName"`
	Difficulty      domain.Difficulty `json:"difficulty"`
	HumanSide       string            `json:"humanSide"`
	Winner          string            `json:"winner"`
	Reason          string            `json:"reason"`
	TotalMoves      int               `json:"totalMoves"`
	DurationSeconds int               `json:"durationSeconds"`
	XMask           uint64            `json:"xMask,string"`
	OMask           uint64            `json:"oMask,string"`
	Moves           []int             `json:"moves"`
	CreatedAt       time.Time         `json:"createdAt"`
	FinishedAt      time.Time         `json:"finishedAt"`
}

// SaveGame stores a finished game and updates the player's stats and rating in one
// transaction. Saving the same game twice leaves the stats untouched.
func (r *GameRepo) SaveGame(ctx context.Context, record domain.GameRecord) error {
	movesJSON, err := json.Marshal(nonNilMoves(record.Moves))
	if err != nil {
		return fmt.Errorf("failed to marshal moves: %w", err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO game (game_id, user_id, username, bot_name, difficulty, human_side, winner, reason, total_moves, duration_seconds, x_mask, o_mask, moves, created_at, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	ON CONFLICT (game_id) DO NOTHING;
	`
	res, err := tx.ExecContext(ctx, query,
		record.GameID, record.UserID, record.Username, record.BotName, string(record.Difficulty),
		int(record.HumanSide), int(record.Winner), record.Reason, record.TotalMoves, record.DurationSeconds,
		maskToDB(record.XMask), maskToDB(record.OMask), movesJSON, record.CreatedAt, record.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert game record: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if inserted > 0 {
		if err := r.updatePlayerStatsTx(ctx, tx, record); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// updatePlayerStatsTx rates the human against the bot of the game's difficulty
func (r *GameRepo) updatePlayerStatsTx(ctx context.Context, tx *sql.Tx, record domain.GameRecord) error {
	var rating int
	err := tx.QueryRowContext(ctx, `SELECT rating FROM players WHERE id = $1 FOR UPDATE;`, record.UserID).Scan(&rating)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("player %d not found", record.UserID)
	}
	if err != nil {
		return fmt.Errorf("failed to read player rating: %w", err)
	}

	score := record.HumanScore()
	newRating := domain.CalculateElo(rating, domain.GetBotRating(record.Difficulty), score)

	query := `
	UPDATE players
	SET games_played = games_played + 1,
	    games_won = games_won + CASE WHEN $2 THEN 1 ELSE 0 END,
	    games_drawn = games_drawn + CASE WHEN $3 THEN 1 ELSE 0 END,
	    rating = $4
	WHERE id = $1;
	`
	if _, err := tx.ExecContext(ctx, query, record.UserID, score == 1.0, score == 0.5, newRating); err != nil {
		return fmt.Errorf("failed to update player stats in transaction: %w", err)
	}
	return nil
}

const gameSelectFields = `game_id, user_id, username, bot_name, difficulty, human_side, winner, reason, total_moves, duration_seconds, x_mask, o_mask, moves, created_at, finished_at`

func scanGame(row interface{ Scan(dest ...any) error }) (*GameResult, error) {
	var (
		result            GameResult
		difficulty        string
		humanSide, winner int
		xMask, oMask      int64
		movesJSON         []byte
	)
	err := row.Scan(
		&result.GameID,
		&result.UserID,
		&result.Username,
		&result.BotName,
		&difficulty,
		&humanSide,
		&winner,
		&result.Reason,
		&result.TotalMoves,
		&result.DurationSeconds,
		&xMask,
		&oMask,
		&movesJSON,
		&result.CreatedAt,
		&result.FinishedAt,
	)
	if err != nil {
		return nil, err
	}

	result.Difficulty = domain.Difficulty(difficulty)
	result.HumanSide = domain.Player(humanSide).String()
	result.Winner = domain.Player(winner).String()
	result.XMask = maskFromDB(xMask)
	result.OMask = maskFromDB(oMask)
	if result.Moves, err = decodeMoves(movesJSON); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetGameByID returns nil when the game does not exist
func (r *GameRepo) GetGameByID(ctx context.Context, gameID string) (*GameResult, error) {
	query := `SELECT ` + gameSelectFields + ` FROM game WHERE game_id = $1;`

	result, err := scanGame(r.DB.QueryRowContext(ctx, query, gameID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}
	return result, nil
}

// GetUserGameHistory lists a user's games, most recent first
func (r *GameRepo) GetUserGameHistory(ctx context.Context, userID int64, limit int) ([]GameResult, error) {
	query := `SELECT ` + gameSelectFields + ` FROM game WHERE user_id = $1 ORDER BY finished_at DESC LIMIT $2;`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game history: %w", err)
	}
	defer rows.Close()

	games := make([]GameResult, 0)
	for rows.Next() {
		result, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, *result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating game rows: %w", err)
	}
	return games, nil
}

// BIGINT is signed, so masks are stored bit for bit as int64.
func maskToDB(mask uint64) int64 {
	return int64(mask)
}

func maskFromDB(v int64) uint64 {
	return uint64(v)
}

func nonNilMoves(moves []int) []int {
	if moves == nil {
		return []int{}
	}
	return moves
}

func decodeMoves(raw []byte) ([]int, error) {
	moves := []int{}
	if len(raw) == 0 {
		return moves, nil
	}
	if err := json.Unmarshal(raw, &moves); err != nil {
		return nil, fmt.Errorf("failed to unmarshal moves: %w", err)
	}
	return moves, nil
}
