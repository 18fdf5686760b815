package app

import "fmt"

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe はAPIサーバーモードで起動することを示す。
	CommandServe Command = "serve"
	// CommandMigrate はデータベースマイグレーションを操作することを示す。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck はヘルスチェックを実行することを示す。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
)

// MigrateAction はmigrateサブコマンドの操作。
type MigrateAction string

const (
	MigrateUp      MigrateAction = "up"
	MigrateDown    MigrateAction = "down"
	MigrateVersion MigrateAction = "version"
)

// Invocation は解析済みのコマンドライン。
type Invocation struct {
	Command Command
	Migrate MigrateAction // CommandMigrateの場合のみ
}

// ParseCommand はコマンドライン引数（os.Args[1:]）を解析する。
// 引数が空の場合はserve、migrateの操作省略時はupとする。
func ParseCommand(args []string) (Invocation, error) {
	if len(args) == 0 {
		return Invocation{Command: CommandServe}, nil
	}

	switch cmd := Command(args[0]); cmd {
	case CommandServe, CommandHealthcheck:
		return Invocation{Command: cmd}, nil
	case CommandMigrate:
		action := MigrateUp
		if len(args) > 1 {
			action = MigrateAction(args[1])
		}
		switch action {
		case MigrateUp, MigrateDown, MigrateVersion:
			return Invocation{Command: cmd, Migrate: action}, nil
		}
		return Invocation{}, fmt.Errorf("unknown migrate action %q (want up, down or version)", action)
	default:
		return Invocation{}, fmt.Errorf("unknown command %q (want serve, migrate or healthcheck)", args[0])
	}
}
