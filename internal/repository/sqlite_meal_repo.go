package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/dailydiet/internal/model"
)

// SQLiteMealRepo はSQLiteを使用した食事リポジトリ。
type SQLiteMealRepo struct {
	db *sql.DB
}

// NewSQLiteMealRepo はSQLiteMealRepoを生成する。
func NewSQLiteMealRepo(db *sql.DB) *SQLiteMealRepo {
	return &SQLiteMealRepo{db: db}
}

// ListByUser はユーザーの全食事を date, created_at の昇順で返す。
func (r *SQLiteMealRepo) ListByUser(ctx context.Context, userID string) ([]model.Meal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, date, is_on_the_diet, created_at, user_id
		 FROM meals
		 WHERE user_id = ?
		 ORDER BY date ASC, created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	meals := []model.Meal{}
	for rows.Next() {
		m, err := scanSQLiteMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meals: %w", err)
	}

	return meals, nil
}

// FindByIDAndUser は指定IDかつ指定ユーザー所有の食事を取得する。見つからない場合はnilを返す。
func (r *SQLiteMealRepo) FindByIDAndUser(ctx context.Context, id, userID string) (*model.Meal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, date, is_on_the_diet, created_at, user_id
		 FROM meals
		 WHERE id = ? AND user_id = ?`,
		id, userID,
	)

	m, err := scanSQLiteMeal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find meal: %w", err)
	}

	return m, nil
}

// Create は食事を作成する。
func (r *SQLiteMealRepo) Create(ctx context.Context, meal *model.Meal) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO meals (id, user_id, name, description, date, is_on_the_diet, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		meal.ID, meal.UserID, meal.Name, meal.Description, meal.Date, meal.IsOnTheDiet, meal.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert meal: %w", err)
	}
	return nil
}

// UpdateByIDAndUser は食事の全項目を置換する。
func (r *SQLiteMealRepo) UpdateByIDAndUser(ctx context.Context, id, userID string, input model.MealInput) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE meals
		 SET name = ?, description = ?, date = ?, is_on_the_diet = ?
		 WHERE id = ? AND user_id = ?`,
		input.Name, input.Description, input.Date, input.IsOnTheDiet, id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}
	return requireAffected(result)
}

// DeleteByIDAndUser は食事を削除する。
func (r *SQLiteMealRepo) DeleteByIDAndUser(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM meals WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	return requireAffected(result)
}

func scanSQLiteMeal(s rowScanner) (*model.Meal, error) {
	m := &model.Meal{}
	var createdAt int64
	if err := s.Scan(&m.ID, &m.Name, &m.Description, &m.Date, &m.IsOnTheDiet, &createdAt, &m.UserID); err != nil {
		return nil, err
	}
	m.CreatedAt = time.Unix(0, createdAt).UTC()
	return m, nil
}

// compile-time interface check
var _ MealRepository = (*SQLiteMealRepo)(nil)
