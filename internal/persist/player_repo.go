package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrBadPassphrase is returned when a code name is claimed with the wrong
// passphrase.
var ErrBadPassphrase = errors.New("passphrase does not match")

type PlayerRow struct {
	CodeName       string
	PassphraseHash string
	Record         int
	Gold           int
	Games          int
	CreatedAt      time.Time
	LastPlayed     *time.Time
}

type PlayerRepo struct {
	db *DB
}

func NewPlayerRepo(db *DB) *PlayerRepo {
	return &PlayerRepo{db: db}
}

// Load returns the player, or nil when the code name is unclaimed.
func (r *PlayerRepo) Load(ctx context.Context, codeName string) (*PlayerRow, error) {
	row := &PlayerRow{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT code_name, passphrase_hash, record, gold, games, created_at, last_played
		 FROM players WHERE code_name = $1`, codeName,
	).Scan(
		&row.CodeName, &row.PassphraseHash, &row.Record, &row.Gold, &row.Games,
		&row.CreatedAt, &row.LastPlayed,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Claim registers codeName on first use and checks the passphrase after that.
func (r *PlayerRepo) Claim(ctx context.Context, codeName, passphrase string) (*PlayerRow, error) {
	row, err := r.Load(ctx, codeName)
	if err != nil {
		return nil, fmt.Errorf("load player %s: %w", codeName, err)
	}
	if row != nil {
		if !ValidatePassphrase(row.PassphraseHash, passphrase) {
			return nil, ErrBadPassphrase
		}
		return row, nil
	}

	hash, err := HashPassphrase(passphrase)
	if err != nil {
		return nil, err
	}
	row = &PlayerRow{
		CodeName:       codeName,
		PassphraseHash: hash,
		CreatedAt:      time.Now(),
	}
	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO players (code_name, passphrase_hash) VALUES ($1, $2)`,
		row.CodeName, row.PassphraseHash,
	)
	if err != nil {
		return nil, fmt.Errorf("create player %s: %w", codeName, err)
	}
	return row, nil
}

// RecordScore keeps the best score and pays one gold per point.
func (r *PlayerRepo) RecordScore(ctx context.Context, codeName string, score int) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE players
		 SET record = GREATEST(record, $2), gold = gold + $2, games = games + 1, last_played = NOW()
		 WHERE code_name = $1`,
		codeName, score,
	)
	if err != nil {
		return fmt.Errorf("record score for %s: %w", codeName, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record score for %s: no such player", codeName)
	}
	return nil
}

// Top returns the best records, highest first.
func (r *PlayerRepo) Top(ctx context.Context, limit int) ([]PlayerRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT code_name, record, gold, games FROM players
		 ORDER BY record DESC, code_name LIMIT $1`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerRow
	for rows.Next() {
		var p PlayerRow
		if err := rows.Scan(&p.CodeName, &p.Record, &p.Gold, &p.Games); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func HashPassphrase(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash passphrase: %w", err)
	}
	return string(hash), nil
}

func ValidatePassphrase(hash, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
