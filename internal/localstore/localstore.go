// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package localstore persists small per-user state between runs.
//
// Two things survive restarts: the identity of the signed-in user, read
// once at startup, and the per-conversation selection of editable
// parameters. Everything else the application shows is either fetched
// from the remote service or held in memory.
package localstore

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/jeranaias/chatsync/internal/model"
)

// ErrNotFound is returned when a lookup matches no stored row.
var ErrNotFound = errors.New("localstore: not found")

const schema = `
CREATE TABLE IF NOT EXISTS user_info (
	id    TEXT PRIMARY KEY,
	name  TEXT NOT NULL,
	email TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS editable_params (
	conversation_id TEXT NOT NULL,
	param_key       TEXT NOT NULL,
	position        INTEGER NOT NULL,
	PRIMARY KEY (conversation_id, param_key)
);
`

// =============================================================================
// STORE
// =============================================================================

// Store is the on-disk state database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// OpenDefault opens the database in the user's home directory.
// Default: ~/.chatsync/local.db
func OpenDefault() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return Open(filepath.Join(homeDir, ".chatsync", "local.db"))
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// USER IDENTITY
// =============================================================================

// SaveUserInfo stores the signed-in user, replacing any previous one.
func (s *Store) SaveUserInfo(info model.UserInfo) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM user_info`); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO user_info (id, name, email) VALUES (?, ?, ?)`,
		info.ID, info.Name, info.Email); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadUserInfo retrieves the stored user, or ErrNotFound.
func (s *Store) LoadUserInfo() (model.UserInfo, error) {
	var info model.UserInfo
	err := s.db.QueryRow(`SELECT id, name, email FROM user_info LIMIT 1`).
		Scan(&info.ID, &info.Name, &info.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return model.UserInfo{}, ErrNotFound
	}
	if err != nil {
		return model.UserInfo{}, err
	}
	return info, nil
}

// ClearUserInfo forgets the stored user.
func (s *Store) ClearUserInfo() error {
	_, err := s.db.Exec(`DELETE FROM user_info`)
	return err
}

// =============================================================================
// EDITABLE PARAMETER SELECTIONS
// =============================================================================

// SaveEditableParams stores which parameters a conversation exposes for
// editing, replacing any previous selection.
func (s *Store) SaveEditableParams(conversationID string, keys []model.ParamKey) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM editable_params WHERE conversation_id = ?`, conversationID); err != nil {
		return err
	}
	for i, key := range keys {
		if _, err := tx.Exec(
			`INSERT INTO editable_params (conversation_id, param_key, position) VALUES (?, ?, ?)`,
			conversationID, string(key), i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadEditableParams retrieves the stored selection in its saved order,
// or ErrNotFound when the conversation has none.
func (s *Store) LoadEditableParams(conversationID string) ([]model.ParamKey, error) {
	rows, err := s.db.Query(
		`SELECT param_key FROM editable_params WHERE conversation_id = ? ORDER BY position`,
		conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []model.ParamKey
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, model.ParamKey(key))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, ErrNotFound
	}
	return keys, nil
}

// DeleteConversation drops everything stored for a conversation.
func (s *Store) DeleteConversation(conversationID string) error {
	_, err := s.db.Exec(`DELETE FROM editable_params WHERE conversation_id = ?`, conversationID)
	return err
}
