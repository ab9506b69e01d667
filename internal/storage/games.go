package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chessrules/internal/board"
)

const gamePrefix = "game/"

// ErrGameNotFound is returned when no saved game has the requested id.
var ErrGameNotFound = errors.New("saved game not found")

// SavedGame is a game stored as its starting position and coordinate moves.
type SavedGame struct {
	ID        string      `json:"id"`
	StartFEN  string      `json:"start_fen"`
	Moves     []string    `json:"moves"`
	Winner    board.Color `json:"winner"`
	Finished  bool        `json:"finished"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewSavedGame captures the current state of g under id.
func NewSavedGame(id string, g *board.Game) SavedGame {
	status := g.Status()
	now := time.Now()
	return SavedGame{
		ID:        id,
		StartFEN:  g.StartFEN(),
		Moves:     g.Moves(),
		Winner:    status.Winner,
		Finished:  status.GameOver(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Replay rebuilds the game by playing the stored moves from the start position.
func (sg SavedGame) Replay() (*board.Game, error) {
	return board.ReplayGame(sg.StartFEN, sg.Moves)
}

func gameKey(id string) string {
	return gamePrefix + id
}

// SaveGame stores sg, replacing any game with the same id. The creation
// time of an existing entry is kept.
func (s *Storage) SaveGame(sg SavedGame) error {
	if sg.ID == "" || strings.Contains(sg.ID, "/") {
		return fmt.Errorf("invalid game id %q", sg.ID)
	}

	var existing SavedGame
	found, err := s.getJSON(gameKey(sg.ID), &existing)
	if err != nil {
		return err
	}
	if found && !existing.CreatedAt.IsZero() {
		sg.CreatedAt = existing.CreatedAt
	}
	if sg.CreatedAt.IsZero() {
		sg.CreatedAt = time.Now()
	}
	sg.UpdatedAt = time.Now()

	return s.putJSON(gameKey(sg.ID), sg)
}

// LoadGame returns the saved game with the given id.
func (s *Storage) LoadGame(id string) (*SavedGame, error) {
	var sg SavedGame
	found, err := s.getJSON(gameKey(id), &sg)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return &sg, nil
}

// ListGames returns every saved game ordered by id.
func (s *Storage) ListGames() ([]SavedGame, error) {
	var games []SavedGame

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var sg SavedGame
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &sg)
			})
			if err != nil {
				return err
			}
			games = append(games, sg)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(games, func(a, b SavedGame) int {
		return strings.Compare(a.ID, b.ID)
	})
	return games, nil
}

// DeleteGame removes a saved game.
func (s *Storage) DeleteGame(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(gameKey(id)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrGameNotFound, id)
		}
		if err != nil {
			return err
		}
		return txn.Delete([]byte(gameKey(id)))
	})
}
