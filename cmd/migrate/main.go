// Command migrate manages the Facturo PostgreSQL schema.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/facturo/backend/internal/infrastructure/config"
	"github.com/facturo/backend/internal/infrastructure/logger"
	"github.com/facturo/backend/internal/infrastructure/migration"
	"github.com/facturo/backend/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// command is one migrate subcommand. Commands without a migrator work on
// the files only.
type command struct {
	minArgs int
	offline func(dir string, args []string, log *zap.Logger) error
	online  func(m *migration.Migrator, args []string, log *zap.Logger) error
}

var commands = map[string]command{
	"up":   {online: func(m *migration.Migrator, _ []string, _ *zap.Logger) error { return m.Up() }},
	"down": {online: func(m *migration.Migrator, _ []string, _ *zap.Logger) error { return m.Down() }},
	"step": {minArgs: 1, online: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return m.Steps(n)
	}},
	"goto": {minArgs: 1, online: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
		v, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.GoTo(uint(v))
	}},
	"force": {minArgs: 1, online: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.Force(v)
	}},
	"version": {online: func(m *migration.Migrator, _ []string, log *zap.Logger) error {
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		log.Info("Schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		return nil
	}},
	"drop": {online: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
		if len(args) == 0 || (args[0] != "-confirm" && args[0] != "--confirm") {
			return fmt.Errorf("drop deletes every table; run 'migrate drop -confirm'")
		}
		return m.Drop()
	}},
	"create": {minArgs: 1, offline: func(dir string, args []string, log *zap.Logger) error {
		if dir == "" {
			dir = "migrations"
		}
		desc := ""
		if len(args) > 1 {
			desc = args[1]
		}
		mf, err := migration.CreateMigration(dir, args[0], desc)
		if err != nil {
			return err
		}
		log.Info("Migration created", zap.String("up", mf.UpPath), zap.String("down", mf.DownPath))
		return nil
	}},
	"list": {offline: func(dir string, _ []string, log *zap.Logger) error {
		files, err := migration.ListMigrations(migration.Source(migrations.FS, dir))
		if err != nil {
			return err
		}
		log.Info("Migrations", zap.Int("count", len(files)))
		for _, f := range files {
			fmt.Println(" ", f)
		}
		return nil
	}},
}

func main() {
	dir := flag.String("path", "", "read migrations from this directory instead of the embedded set")
	level := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[args[0]]
	if !ok || len(args)-1 < cmd.minArgs {
		usage()
		os.Exit(2)
	}

	log, err := logger.New(config.LogConfig{Level: *level, Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	if *dir != "" {
		if *dir, err = filepath.Abs(*dir); err != nil {
			log.Fatal("Invalid migrations path", zap.Error(err))
		}
	}

	if cmd.offline != nil {
		if err := cmd.offline(*dir, args[1:], log); err != nil {
			log.Fatal("Command failed", zap.String("command", args[0]), zap.Error(err))
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		log.Fatal("Database unreachable", zap.Error(err))
	}

	m, err := migration.New(db, migration.Source(migrations.FS, *dir), log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	if err := cmd.online(m, args[1:], log); err != nil {
		log.Error("Command failed", zap.String("command", args[0]), zap.Error(err))
		_ = m.Close()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: migrate [-path dir] [-log-level level] <command> [args]

Commands:
  up                           apply every pending migration
  down                         roll every migration back
  step <n>                     move n versions (negative rolls back)
  goto <version>               migrate to version
  version                      print the applied version
  force <version>              set the version without running SQL
  drop -confirm                drop every table
  create <name> [description]  write the next numbered up/down pair
  list                         list migrations

The database is read from FACTURO_DATABASE_* (host, port, user, password,
dbname, sslmode). Without -path the migrations built into the binary are
used; create writes to ./migrations.
`)
}
