package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// storedCredential is the single-row shadow of the session.
type storedCredential struct {
	bun.BaseModel `bun:"table:session_credentials,alias:cred"`

	ID         int64     `bun:"id,pk"`
	Credential string    `bun:"credential,notnull"`
	UserJSON   []byte    `bun:"user_json"`
	UpdatedAt  time.Time `bun:"updated_at,notnull"`
}

// BunStore persists the credential pair in a sqlite database through bun.
// Useful when the host application already keeps a local bun database and
// wants the session in the same place.
type BunStore struct {
	db *bun.DB
}

// NewBunStore wraps an existing bun database. The credentials table is
// created on first use if missing.
func NewBunStore(db *bun.DB) (*BunStore, error) {
	s := &BunStore{db: db}
	if _, err := db.NewCreateTable().
		Model((*storedCredential)(nil)).
		IfNotExists().
		Exec(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenSQLiteStore opens (or creates) a sqlite-backed store at path.
func OpenSQLiteStore(path string) (*BunStore, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, err
	}
	return NewBunStore(bun.NewDB(sqldb, sqlitedialect.New()))
}

// Save upserts the single credential row, both entries together.
func (s *BunStore) Save(credential string, user *User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return err
	}

	rec := &storedCredential{
		ID:         1,
		Credential: credential,
		UserJSON:   userJSON,
		UpdatedAt:  time.Now(),
	}

	_, err = s.db.NewInsert().
		Model(rec).
		On("CONFLICT (id) DO UPDATE").
		Set("credential = EXCLUDED.credential").
		Set("user_json = EXCLUDED.user_json").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(context.Background())
	return err
}

// Load reads the row back; any database trouble reads as absent.
func (s *BunStore) Load() (string, *User, bool) {
	rec := new(storedCredential)
	err := s.db.NewSelect().
		Model(rec).
		Where("id = ?", 1).
		Scan(context.Background())
	if err != nil || rec.Credential == "" {
		return "", nil, false
	}

	var user *User
	if len(rec.UserJSON) > 0 {
		user = new(User)
		if err := json.Unmarshal(rec.UserJSON, user); err != nil {
			user = nil
		}
	}
	return rec.Credential, user, true
}

// Clear removes the row; deleting nothing is still clear.
func (s *BunStore) Clear() error {
	_, err := s.db.NewDelete().
		Model((*storedCredential)(nil)).
		Where("id = ?", 1).
		Exec(context.Background())
	return err
}

// Close closes the underlying database.
func (s *BunStore) Close() error {
	return s.db.Close()
}
