// The init package contains functions that setup required dependencies such as the SQLite database.
package initialization

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Wididit/Wididit-server/internal/config"
	"github.com/Wididit/Wididit-server/internal/db/impl/queries"
	"github.com/Wididit/Wididit-server/internal/utils"
	"github.com/golang-migrate/migrate"
	"github.com/golang-migrate/migrate/database/sqlite3"
	_ "github.com/golang-migrate/migrate/source/file"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"
)

// SetupDB applies all remaining migrations found in folder.
func SetupDB(cfg *config.Configuration, db *sql.DB, folder, dbname string) error {
	log.Info().Str("folder", folder).Msg("starting migrations")
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		log.Error().Err(err).Msg("failed to create sqlite3 migration driver")
		return err
	}

	mig, err := migrate.NewWithDatabaseInstance(
		"file://"+folder,
		dbname,
		driver,
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create Migrate object")
		return err
	}

	err = mig.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Error().Err(err).Msg("failed to run migrations")
		return err
	}

	return nil
}

// OpenDB opens the SQLite database with foreign keys enforced. A single connection is kept so that in-memory
// databases are shared by every caller and writers never contend for the file lock.
func OpenDB(connString string) (*sql.DB, error) {
	if !strings.Contains(connString, "_foreign_keys") && !strings.Contains(connString, "_fk") {
		sep := "?"
		if strings.Contains(connString, "?") {
			sep = "&"
		}
		connString += sep + "_foreign_keys=1"
	}

	db, err := sql.Open("sqlite3", connString)
	if err != nil {
		log.Error().Err(err).Str("connection string", connString).Msg("failed to open database")
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err = db.Ping(); err != nil {
		log.Error().Err(err).Str("connection string", connString).Msg("failed to connect to database")
		return nil, err
	}
	return db, nil
}

// EnsureInstance makes sure the row representing this server exists and holds the server's keys.
func EnsureInstance(DB *sql.DB, cfg *config.Configuration) error {
	ctx := context.Background()
	q := queries.New(DB)

	exists, err := q.LocalServerExists(ctx, cfg.Hostname)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	log.Info().Str("hostname", cfg.Hostname).Msg("inserting server data into the database")
	size := cfg.RsaKeySize
	if size == 0 {
		size = 2048
	}
	pub, priv, err := utils.GenerateKeysPem(size)
	if err != nil {
		return err
	}

	// The hostname may already be known as a peer, e.g. after the server was renamed back.
	n, err := q.MarkServerLocal(ctx, queries.MarkServerLocalParams{
		PublicKey:  pub,
		PrivateKey: priv,
		Hostname:   cfg.Hostname,
	})
	if err != nil || n > 0 {
		return err
	}

	_, err = q.InsertServer(ctx, queries.InsertServerParams{
		Hostname:   cfg.Hostname,
		PublicKey:  sql.NullString{Valid: true, String: pub},
		PrivateKey: sql.NullString{Valid: true, String: priv},
		Local:      true,
	})
	if err != nil {
		log.Error().Err(err).Msg("insert failed")
	}
	return err
}

// QueueLogger routes the task queue's messages to the global zerolog logger.
type QueueLogger struct{}

func (QueueLogger) Info(message string, params ...any) {
	log.Debug().Fields(params).Msg(message)
}

func (QueueLogger) Error(message string, params ...any) {
	log.Error().Fields(params).Msg(message)
}

// InitQueue opens the queue database and installs backlite's schema in it.
func InitQueue(cfg *config.Configuration) (*backlite.Client, error) {
	d, err := sql.Open("sqlite3", cfg.QueueDbUrl)
	if err != nil {
		return nil, err
	}

	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              d,
		Logger:          QueueLogger{},
		ReleaseAfter:    time.Minute,
		NumWorkers:      4,
		CleanupInterval: time.Hour,
	})
	if err != nil {
		return nil, err
	}

	if err = client.Install(); err != nil {
		return nil, err
	}
	return client, nil
}
