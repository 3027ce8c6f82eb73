package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"golang.org/x/crypto/bcrypt"
)

//go:embed migrations/*.sql
var migrations embed.FS

var (
	ErrNoteExists   = errors.New("note already exists")
	ErrNoteNotFound = errors.New("note not found")
)

// ServerDB is the remote store: users and their notes.
type ServerDB struct {
	conn *sql.DB
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	Active       bool      `json:"active"`
}

// ServerNote is one row of the notes table.
type ServerNote struct {
	ID         string
	UserID     string
	Content    string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

func NewServerDB(dbPath string) (*ServerDB, error) {
	conn, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &ServerDB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func (db *ServerDB) migrate() error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.Up(db.conn, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func (db *ServerDB) Close() error {
	return db.conn.Close()
}

// User operations

func (db *ServerDB) CreateUser(username, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
		Active:    true,
	}
	_, err = db.conn.Exec(`
		INSERT INTO users (id, username, password_hash, created_at, active)
		VALUES (?, ?, ?, ?, 1)
	`, u.ID, u.Username, string(hash), u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (db *ServerDB) GetUserByUsername(username string) (*User, error) {
	var u User
	err := db.conn.QueryRow(`
		SELECT id, username, password_hash, created_at, active
		FROM users WHERE username = ?
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.Active)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (db *ServerDB) GetUserByID(id string) (*User, error) {
	var u User
	err := db.conn.QueryRow(`
		SELECT id, username, password_hash, created_at, active
		FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.Active)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (db *ServerDB) ValidatePassword(user *User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	return err == nil
}

// Note operations

func (db *ServerDB) ListNotesByUser(userID string) ([]ServerNote, error) {
	rows, err := db.conn.Query(`
		SELECT id, user_id, content, created_at, modified_at
		FROM notes
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := []ServerNote{}
	for rows.Next() {
		var n ServerNote
		if err := rows.Scan(&n.ID, &n.UserID, &n.Content, &n.CreatedAt, &n.ModifiedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (db *ServerDB) GetNote(id, userID string) (*ServerNote, error) {
	var n ServerNote
	err := db.conn.QueryRow(`
		SELECT id, user_id, content, created_at, modified_at
		FROM notes WHERE id = ? AND user_id = ?
	`, id, userID).Scan(&n.ID, &n.UserID, &n.Content, &n.CreatedAt, &n.ModifiedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return &n, nil
}

// InsertNote creates a row. Ids are global, so an id already used by any user is rejected.
func (db *ServerDB) InsertNote(n ServerNote) error {
	result, err := db.conn.Exec(`
		INSERT INTO notes (id, user_id, content, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, n.ID, n.UserID, n.Content, n.CreatedAt.UTC(), n.ModifiedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("insert note %s: %w", n.ID, ErrNoteExists)
	}
	return nil
}

func (db *ServerDB) UpdateNote(n ServerNote) error {
	result, err := db.conn.Exec(`
		UPDATE notes SET content = ?, created_at = ?, modified_at = ?
		WHERE id = ? AND user_id = ?
	`, n.Content, n.CreatedAt.UTC(), n.ModifiedAt.UTC(), n.ID, n.UserID)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update note %s: %w", n.ID, ErrNoteNotFound)
	}
	return nil
}

func (db *ServerDB) DeleteNote(id, userID string) error {
	_, err := db.conn.Exec(`DELETE FROM notes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

// DeleteNotesByUser removes every note owned by userID and returns how many were removed.
func (db *ServerDB) DeleteNotesByUser(userID string) (int64, error) {
	result, err := db.conn.Exec(`DELETE FROM notes WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete notes: %w", err)
	}
	return result.RowsAffected()
}
