package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/hitoshi/dailydiet/internal/model"
)

// SQLiteUserRepo はSQLiteを使用したユーザーリポジトリ。
// ローカル開発と単体テスト向け。created_atはUnixナノ秒で保持する。
type SQLiteUserRepo struct {
	db *sql.DB
}

// NewSQLiteUserRepo はSQLiteUserRepoを生成する。
func NewSQLiteUserRepo(db *sql.DB) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: db}
}

// FindBySessionID はセッションIDに紐付くユーザーを取得する。見つからない場合はnilを返す。
func (r *SQLiteUserRepo) FindBySessionID(ctx context.Context, sessionID string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, session_id, created_at FROM users WHERE session_id = ?`,
		sessionID,
	)

	user, err := scanSQLiteUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by session ID: %w", err)
	}

	return user, nil
}

// ListBySessionID はセッションIDに紐付くユーザーの一覧を返す。
func (r *SQLiteUserRepo) ListBySessionID(ctx context.Context, sessionID string) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, session_id, created_at FROM users WHERE session_id = ? ORDER BY created_at`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by session ID: %w", err)
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		user, err := scanSQLiteUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// Create はユーザーを作成する。
func (r *SQLiteUserRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, session_id, created_at) VALUES (?, ?, ?, ?)`,
		user.ID, user.Username, nullString(user.SessionID), user.CreatedAt.UnixNano(),
	)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrSessionAlreadyBound
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func scanSQLiteUser(s rowScanner) (*model.User, error) {
	user := &model.User{}
	var sessionID sql.NullString
	var createdAt int64
	if err := s.Scan(&user.ID, &user.Username, &sessionID, &createdAt); err != nil {
		return nil, err
	}
	if sessionID.Valid {
		user.SessionID = &sessionID.String
	}
	user.CreatedAt = time.Unix(0, createdAt).UTC()
	return user, nil
}

// isSQLiteUniqueViolation はSQLiteの一意制約違反かどうかを判定する。
func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// 拡張エラーコードが無効な接続ではメッセージで判定する
		return strings.Contains(sqliteErr.Error(), "UNIQUE")
	default:
		return false
	}
}

// compile-time interface check
var _ UserRepository = (*SQLiteUserRepo)(nil)
