package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const (
	storagePathFlag   = "storage-path"
	migrationPathFlag = "migrations-path"
	downFlag          = "down"
)

type options struct {
	storagePath    string
	migrationsPath string
	down           bool
}

func main() {
	logger := zap.Must(zap.NewDevelopment()).Sugar()
	defer logger.Sync()

	opts := parseFlags(os.Args[1:])
	if err := opts.validate(); err != nil {
		logger.Errorw("too few args", "error", err)
		os.Exit(2)
	}

	if err := run(opts, logger); err != nil {
		logger.Errorw("failed to migrate", "error", err)
		os.Exit(2)
	}
}

func parseFlags(args []string) options {
	var o options
	fs := pflag.NewFlagSet("migrator", pflag.ExitOnError)
	fs.StringVarP(&o.storagePath, storagePathFlag, "s", "", "postgres address, e.g. user:pass@localhost:5432/shop?sslmode=disable")
	fs.StringVarP(&o.migrationsPath, migrationPathFlag, "m", "", "directory holding the *.sql migrations")
	fs.BoolVar(&o.down, downFlag, false, "roll every migration back instead of applying")
	_ = fs.Parse(args)
	return o
}

func (o options) validate() error {
	var errs []error
	if o.storagePath == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", storagePathFlag))
	}
	if o.migrationsPath == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", migrationPathFlag))
	}
	return errors.Join(errs...)
}

// migrationLogger adapts zap to migrate.Logger.
type migrationLogger struct {
	logger *zap.SugaredLogger
}

func (ml migrationLogger) Printf(format string, v ...any) {
	ml.logger.Infof(format, v...)
}

func (ml migrationLogger) Verbose() bool { return true }

func run(o options, logger *zap.SugaredLogger) error {
	m, err := migrate.New(
		fmt.Sprintf("file://%s", o.migrationsPath),
		fmt.Sprintf("pgx5://%s", o.storagePath),
	)
	if err != nil {
		return err
	}
	defer m.Close()

	m.Log = migrationLogger{logger: logger}

	if o.down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to apply")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("migration applied")
	return nil
}
