package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/dailydiet/internal/model"
)

// pgUniqueViolation はPostgreSQLの一意制約違反のSQLSTATE。
const pgUniqueViolation = "23505"

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindBySessionID はセッションIDに紐付くユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindBySessionID(ctx context.Context, sessionID string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, session_id, created_at FROM users WHERE session_id = $1`,
		sessionID,
	)

	user, err := scanPostgresUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by session ID: %w", err)
	}

	return user, nil
}

// ListBySessionID はセッションIDに紐付くユーザーの一覧を返す。
func (r *PostgresUserRepo) ListBySessionID(ctx context.Context, sessionID string) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, session_id, created_at FROM users WHERE session_id = $1 ORDER BY created_at`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by session ID: %w", err)
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		user, err := scanPostgresUser(rows)
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
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, session_id, created_at)
		 VALUES ($1, $2, $3, $4)`,
		user.ID, user.Username, nullString(user.SessionID), user.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return ErrSessionAlreadyBound
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// rowScanner は*sql.Rowと*sql.Rowsの共通インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgresUser(s rowScanner) (*model.User, error) {
	user := &model.User{}
	var sessionID sql.NullString
	if err := s.Scan(&user.ID, &user.Username, &sessionID, &user.CreatedAt); err != nil {
		return nil, err
	}
	if sessionID.Valid {
		user.SessionID = &sessionID.String
	}
	return user, nil
}

// nullString は空またはnilのセッションIDをNULLとして扱う。
func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
