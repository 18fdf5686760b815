package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// サポートするドライバ名
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DriverFor はデータベースURLのスキームからドライバ名を判定する。
func DriverFor(databaseURL string) (string, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return DriverPostgres, nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return DriverSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database URL scheme")
	}
}

// SQLitePath はsqlite:// URLからファイルパスを取り出す。クエリ文字列は除去する。
func SQLitePath(databaseURL string) string {
	path := strings.TrimPrefix(databaseURL, "sqlite://")
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	return path
}

// Open はデータベース接続を開く。
// postgres:// の場合はPostgreSQL、sqlite:// の場合はSQLite（pure Go）を使用する。
// PostgreSQLではsql.Openは接続を試行しないため、実際の接続確認にはdb.Ping()を使用すること。
func Open(databaseURL string) (*sql.DB, error) {
	driver, err := DriverFor(databaseURL)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		return openSQLite(SQLitePath(databaseURL))
	}

	db, err := sql.Open(DriverPostgres, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return db, nil
}

// openSQLite はSQLiteファイルを開く。親ディレクトリがなければ作成する。
// 外部キー制約を有効化し、書き込みの競合を避けるため接続数を1に制限する。
func openSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	return db, nil
}
