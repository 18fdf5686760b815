package repository

import (
	"database/sql"
	"fmt"

	"github.com/hitoshi/dailydiet/internal/database"
)

// Repositories はドライバに応じて生成したリポジトリの組。
type Repositories struct {
	Users UserRepository
	Meals MealRepository
}

// New はドライバ名に対応するリポジトリ実装を生成する。
func New(db *sql.DB, driver string) (*Repositories, error) {
	switch driver {
	case database.DriverPostgres:
		return &Repositories{
			Users: NewPostgresUserRepo(db),
			Meals: NewPostgresMealRepo(db),
		}, nil
	case database.DriverSQLite:
		return &Repositories{
			Users: NewSQLiteUserRepo(db),
			Meals: NewSQLiteMealRepo(db),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported driver: %q", driver)
	}
}
