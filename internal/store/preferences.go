package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/glebarez/go-sqlite"
	"github.com/priya/yatri/internal/extract"
	"github.com/priya/yatri/internal/travel"
)

// PreferenceStore is the durable side of the assistant: traveler profiles,
// the search log, and recurring price watches. Turn processing treats every
// failure here as non-fatal and proceeds with session-local state.
type PreferenceStore struct {
	DB *sql.DB
}

func NewPreferenceStore(dbPath string) (*PreferenceStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS preferences (
			user_id TEXT PRIMARY KEY,
			profile TEXT,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS searches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id TEXT,
			kind TEXT,
			query TEXT,
			results INTEGER,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS watches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id TEXT,
			origin TEXT,
			destination TEXT,
			interval_seconds INTEGER,
			last_run DATETIME,
			status TEXT DEFAULT 'active'
		);`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return nil, err
		}
	}

	return &PreferenceStore{DB: db}, nil
}

// LoadProfile returns the saved profile for a user, or a zero profile when
// none has been saved yet.
func (p *PreferenceStore) LoadProfile(userID string) (extract.Profile, error) {
	var raw string
	err := p.DB.QueryRow(`SELECT profile FROM preferences WHERE user_id = ?`, userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return extract.Profile{}, nil
	}
	if err != nil {
		return extract.Profile{}, err
	}

	var prof extract.Profile
	if err := json.Unmarshal([]byte(raw), &prof); err != nil {
		return extract.Profile{}, fmt.Errorf("corrupt stored profile for %s: %v", userID, err)
	}
	return prof, nil
}

func (p *PreferenceStore) SaveProfile(userID string, prof extract.Profile) error {
	raw, err := json.Marshal(prof)
	if err != nil {
		return err
	}
	query := `INSERT INTO preferences (user_id, profile, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(user_id) DO UPDATE SET profile = excluded.profile, updated_at = excluded.updated_at`
	_, err = p.DB.Exec(query, userID, string(raw))
	return err
}

func (p *PreferenceStore) LogSearch(chatID string, rec travel.SearchRecord) error {
	query := `INSERT INTO searches (chat_id, kind, query, results) VALUES (?, ?, ?, ?)`
	_, err := p.DB.Exec(query, chatID, rec.Kind, rec.Query, rec.Results)
	return err
}

// Watch is one recurring flight price check.
type Watch struct {
	ID              int
	ChatID          string
	Origin          string
	Destination     string
	IntervalSeconds int
}

func (p *PreferenceStore) AddWatch(chatID, origin, destination string, intervalSeconds int) error {
	query := `INSERT INTO watches (chat_id, origin, destination, interval_seconds, last_run)
		VALUES (?, ?, ?, ?, datetime('now', '-365 days'))`
	_, err := p.DB.Exec(query, chatID, origin, destination, intervalSeconds)
	return err
}

// GetDueWatches returns active watches whose interval has elapsed.
func (p *PreferenceStore) GetDueWatches() ([]Watch, error) {
	query := `
		SELECT id, chat_id, origin, destination, interval_seconds
		FROM watches
		WHERE status = 'active'
		AND (last_run IS NULL OR (julianday('now') - julianday(last_run)) * 86400 >= interval_seconds)`
	rows, err := p.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var watches []Watch
	for rows.Next() {
		var w Watch
		if err := rows.Scan(&w.ID, &w.ChatID, &w.Origin, &w.Destination, &w.IntervalSeconds); err != nil {
			return nil, err
		}
		watches = append(watches, w)
	}
	return watches, rows.Err()
}

func (p *PreferenceStore) UpdateWatchLastRun(id int) error {
	_, err := p.DB.Exec(`UPDATE watches SET last_run = datetime('now') WHERE id = ?`, id)
	return err
}

func (p *PreferenceStore) ClearWatches(chatID string) error {
	_, err := p.DB.Exec(`DELETE FROM watches WHERE chat_id = ?`, chatID)
	return err
}
