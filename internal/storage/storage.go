package storage

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chessrules/internal/board"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
)

// UserPreferences stores user settings
type UserPreferences struct {
	Username       string    `json:"username"`
	Flipped        bool      `json:"flipped"`
	SoundEnabled   bool      `json:"sound_enabled"`
	ShowLegalMoves bool      `json:"show_legal_moves"`
	LastPlayed     time.Time `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:       "Player",
		SoundEnabled:   true,
		ShowLegalMoves: true,
		LastPlayed:     time.Now(),
	}
}

// GameStats stores results of finished games
type GameStats struct {
	GamesPlayed int           `json:"games_played"`
	WhiteWins   int           `json:"white_wins"`
	BlackWins   int           `json:"black_wins"`
	Checkmates  int           `json:"checkmates"`
	Abandoned   int           `json:"abandoned"`
	TotalMoves  int           `json:"total_moves"`
	LongestGame int           `json:"longest_game"`
	PlayTime    time.Duration `json:"play_time"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{}
}

// WinRate returns the share of finished games won by color c as a
// percentage (0-100).
func (s *GameStats) WinRate(c board.Color) float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	wins := s.WhiteWins
	if c == board.Black {
		wins = s.BlackWins
	}
	return float64(wins) / float64(s.GamesPlayed) * 100
}

// GameResult describes a completed or abandoned game.
type GameResult struct {
	Winner    board.Color // NoColor when nobody won
	Checkmate bool
	Moves     int
	Duration  time.Duration
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens the database in dir. An empty dir opens an in-memory database
// that is discarded on Close.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.putJSON(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	_, err := s.getJSON(keyPreferences, prefs)
	return prefs, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.putJSON(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	_, err := s.getJSON(keyStats, stats)
	return stats, err
}

// RecordGame records a finished game and updates statistics.
func (s *Storage) RecordGame(result GameResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalMoves += result.Moves
	stats.PlayTime += result.Duration
	stats.LongestGame = max(stats.LongestGame, result.Moves)

	switch result.Winner {
	case board.White:
		stats.WhiteWins++
	case board.Black:
		stats.BlackWins++
	default:
		stats.Abandoned++
	}
	if result.Checkmate {
		stats.Checkmates++
	}

	return s.SaveStats(stats)
}

// RecordResult is shorthand for RecordGame with only the winner known.
func (s *Storage) RecordResult(winner board.Color, checkmate bool) error {
	return s.RecordGame(GameResult{Winner: winner, Checkmate: checkmate})
}

// putJSON stores v under key.
func (s *Storage) putJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// getJSON decodes the value under key into v. It reports false, with a nil
// error, when the key does not exist.
func (s *Storage) getJSON(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}
