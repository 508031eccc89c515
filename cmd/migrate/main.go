package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-ConsultorioService/internal/config"
	"github.com/m04kA/SMC-ConsultorioService/migrations"
)

// Использование:
//
//	migrate            - применить все миграции
//	migrate down       - откатить последнюю
//	migrate force <v>  - выставить версию после ручного исправления
func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		fatal("open db: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		fatal("ping db: %v", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		fatal("db driver: %v", err)
	}

	srcDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		fatal("source driver: %v", err)
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
	if err != nil {
		fatal("create migrator: %v", err)
	}
	defer m.Close()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "force":
		if len(os.Args) < 3 {
			fatal("force requires a version")
		}
		version, convErr := strconv.Atoi(os.Args[2])
		if convErr != nil {
			fatal("invalid version: %v", convErr)
		}
		err = m.Force(version)
	default:
		fatal("unknown command %q (up, down, force <version>)", command)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		fatal("migrate %s: %v", command, err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		fatal("read version: %v", err)
	}
	fmt.Printf("migrations complete: version=%d dirty=%t\n", version, dirty)
}

func fatal(format string, v ...interface{}) {
	fmt.Printf(format+"\n", v...)
	os.Exit(1)
}
