package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	// sqlite driver
	_ "modernc.org/sqlite"
)

type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

type Config struct {
	Driver Driver
	Conn   string
	debug  bool
}

func (c *Config) SetDebug(debug bool) { c.debug = debug }

func (c Config) Validate() error {
	switch c.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Driver)
	}
	if c.Conn == "" {
		return fmt.Errorf("connection string is required for %s", c.Driver)
	}
	return nil
}

// NewDB connects to PostgreSQL. In debug mode every query is logged.
func NewDB(
	ctx context.Context,
	logger *zap.Logger,
	cfg Config,
) (*pgx.Conn, error) {
	cnf, err := pgx.ParseConfig(cfg.Conn)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.debug {
		cnf.Tracer = &tracelog.TraceLog{
			Logger:   tracelog.LoggerFunc(queryMessageLog(logger)),
			LogLevel: tracelog.LogLevelInfo,
		}
	}

	c, err := pgx.ConnectConfig(ctx, cnf)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return c, nil
}

// NewSQLite opens a SQLite database file. The pool is limited to one
// connection so ":memory:" databases keep their content.
func NewSQLite(
	ctx context.Context,
	logger *zap.Logger,
	cfg Config,
) (*sqlx.DB, error) {
	conn, err := sqlx.Open(string(DriverSQLite), cfg.Conn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if cfg.debug {
		logger.Debug("sqlite opened", zap.String("dsn", cfg.Conn))
	}
	return conn, nil
}

func queryMessageLog(log *zap.Logger) func(
	ctx context.Context,
	level tracelog.LogLevel,
	msg string,
	data map[string]any,
) {
	return func(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		if msg == "Prepare" {
			return
		}
		var rawSQL *string
		fields := make([]zapcore.Field, 0, len(data))
		for k, v := range data {
			f := zap.Any(k, v)
			if f.Key == "sql" && f.Type == zapcore.StringType {
				rawSQL = &f.String
				continue
			}
			fields = append(fields, f)
		}

		var lvl zapcore.Level
		switch level {
		default:
			fallthrough
		case tracelog.LogLevelNone, tracelog.LogLevelTrace, tracelog.LogLevelDebug:
			lvl = zapcore.DebugLevel
		case tracelog.LogLevelInfo:
			lvl = zapcore.InfoLevel
		case tracelog.LogLevelWarn:
			lvl = zapcore.WarnLevel
		case tracelog.LogLevelError:
			lvl = zapcore.ErrorLevel
		}
		if rawSQL != nil {
			msg = msg + "\n" + *rawSQL
		}
		if ce := log.Check(lvl, msg); ce != nil {
			ce.Write(fields...)
		}
	}
}
