package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/dailydiet/internal/model"
)

// PostgresMealRepo はPostgreSQLを使用した食事リポジトリ。
type PostgresMealRepo struct {
	db *sql.DB
}

// NewPostgresMealRepo はPostgresMealRepoを生成する。
func NewPostgresMealRepo(db *sql.DB) *PostgresMealRepo {
	return &PostgresMealRepo{db: db}
}

// ListByUser はユーザーの全食事を date, created_at の昇順で返す。
func (r *PostgresMealRepo) ListByUser(ctx context.Context, userID string) ([]model.Meal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, date, is_on_the_diet, created_at, user_id
		 FROM meals
		 WHERE user_id = $1
		 ORDER BY date ASC, created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	meals := []model.Meal{}
	for rows.Next() {
		var m model.Meal
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Date, &m.IsOnTheDiet, &m.CreatedAt, &m.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meals: %w", err)
	}

	return meals, nil
}

// FindByIDAndUser は指定IDかつ指定ユーザー所有の食事を取得する。見つからない場合はnilを返す。
func (r *PostgresMealRepo) FindByIDAndUser(ctx context.Context, id, userID string) (*model.Meal, error) {
	m := &model.Meal{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, date, is_on_the_diet, created_at, user_id
		 FROM meals
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&m.ID, &m.Name, &m.Description, &m.Date, &m.IsOnTheDiet, &m.CreatedAt, &m.UserID)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find meal: %w", err)
	}

	return m, nil
}

// Create は食事を作成する。
func (r *PostgresMealRepo) Create(ctx context.Context, meal *model.Meal) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO meals (id, user_id, name, description, date, is_on_the_diet, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		meal.ID, meal.UserID, meal.Name, meal.Description, meal.Date, meal.IsOnTheDiet, meal.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert meal: %w", err)
	}
	return nil
}

// UpdateByIDAndUser は食事の全項目を置換する。
func (r *PostgresMealRepo) UpdateByIDAndUser(ctx context.Context, id, userID string, input model.MealInput) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE meals
		 SET name = $1, description = $2, date = $3, is_on_the_diet = $4
		 WHERE id = $5 AND user_id = $6`,
		input.Name, input.Description, input.Date, input.IsOnTheDiet, id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}
	return requireAffected(result)
}

// DeleteByIDAndUser は食事を削除する。
func (r *PostgresMealRepo) DeleteByIDAndUser(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM meals WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	return requireAffected(result)
}

// requireAffected は影響行数が0件の場合にErrMealNotFoundを返す。
func requireAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrMealNotFound
	}
	return nil
}

// compile-time interface check
var _ MealRepository = (*PostgresMealRepo)(nil)
