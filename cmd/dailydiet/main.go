// Command dailydiet は食事記録APIサーバーを起動する。
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/hitoshi/dailydiet/internal/app"
)

func main() {
	// .envは任意。存在しない場合は環境変数のみを使用する
	_ = godotenv.Load()

	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		slog.Error("application exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
