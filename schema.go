package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/Feresey/joinpath/catalog"
	"github.com/Feresey/joinpath/db"
	"github.com/Feresey/joinpath/parse"
	"github.com/Feresey/joinpath/parse/queries"
	"github.com/Feresey/joinpath/parse/sqlite"
)

type SchemaLoaderFlags struct {
	dumpPath *cli.StringFlag
}

func NewSchemaLoaderFlags() SchemaLoaderFlags {
	return SchemaLoaderFlags{
		dumpPath: &cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "-i snapshot.json",
			Action: func(ctx *cli.Context, fpath string) error {
				return checkSnapshotFile(fpath)
			},
		},
	}
}

// checkSnapshotFile отсекает опечатки в пути до подключения к базе.
// Права доступа проверит чтение файла.
func checkSnapshotFile(fpath string) error {
	if fpath == stdinFileName {
		return nil
	}
	fileInfo, err := os.Stat(fpath)
	if os.IsNotExist(err) {
		return xerrors.Errorf("dump file %q does not exist", fpath)
	}
	if err != nil {
		return xerrors.Errorf("stat dump file: %w", err)
	}
	if fileInfo.IsDir() {
		return xerrors.Errorf("%q is a directory, expected file", fpath)
	}
	if !fileInfo.Mode().IsRegular() {
		return xerrors.Errorf("%q is not a regular file", fpath)
	}
	return nil
}

func (f SchemaLoaderFlags) Filename(ctx *cli.Context) string { return f.dumpPath.Get(ctx) }

// SchemaLoader reads a snapshot either from a dump file or from the
// configured database.
type SchemaLoader struct {
	BaseCommand

	filename string

	// защищает соединение, вызовы инструментов MCP могут идти параллельно
	mu      sync.Mutex
	conn    *pgx.Conn
	sqlite  *sqlx.DB
	queries parse.Queries
}

func NewSchemaLoader(
	ctx *cli.Context,
	base BaseCommand,
	flags flags,
	filename string,
) (*SchemaLoader, error) {
	s := &SchemaLoader{
		BaseCommand: base,
		filename:    filename,
	}

	err := s.Init(ctx, flags)
	return s, err
}

const stdinFileName = "-"

func (p *SchemaLoader) Init(ctx *cli.Context, flags flags) error {
	if p.filename != "" {
		return nil
	}
	if p.cnf.DB.Driver == db.DriverSQLite {
		conn, err := p.connectSQLite(ctx, flags.debug.Get(ctx))
		if err != nil {
			return cli.Exit(err, 3)
		}
		p.sqlite = conn
		p.queries = sqlite.New(conn)
		return nil
	}

	conn, err := p.connectDB(ctx, flags.debug.Get(ctx))
	if err != nil {
		return cli.Exit(err, 3)
	}
	p.conn = conn
	p.queries = queries.New(conn)
	return nil
}

// FromFile reports whether snapshots come from a dump file.
func (p *SchemaLoader) FromFile() bool { return p.filename != "" }

func (p *SchemaLoader) Cleanup(ctx *cli.Context) error {
	var errs []error
	if p.conn != nil {
		if err := p.conn.Close(ctx.Context); err != nil {
			errs = append(errs, xerrors.Errorf("close pgx conn: %w", err))
		}
	}
	if p.sqlite != nil {
		if err := p.sqlite.Close(); err != nil {
			errs = append(errs, xerrors.Errorf("close sqlite: %w", err))
		}
	}
	return errors.Join(errs...)
}

// LoadSnapshot reads a fresh snapshot on every call.
func (p *SchemaLoader) LoadSnapshot(ctx context.Context) (s *catalog.Snapshot, err error) {
	if p.filename != "" {
		return p.getSnapshotFromFile(p.filename)
	}
	p.log.Debug("snapshot dump path is not specified")
	return p.parseDB(ctx)
}

func (p *SchemaLoader) getSnapshotFromFile(filename string) (s *catalog.Snapshot, err error) {
	p.log.Debug("load snapshot from file", zap.String("filename", filename))
	defer func() {
		p.log.Info("snapshot loaded", zap.Error(err), zap.String("filename", filename))
	}()
	var in io.Reader
	if filename == stdinFileName {
		in = os.Stdin
	} else {
		fileData, err := os.ReadFile(filename)
		if err != nil {
			return nil, xerrors.Errorf("read snapshot dump file: %w", err)
		}
		in = bytes.NewReader(fileData)
	}
	s, err = catalog.Decode(in)
	if err != nil {
		return nil, xerrors.Errorf("load snapshot: %w", err)
	}
	return s, nil
}

func (p *SchemaLoader) parseDB(ctx context.Context) (s *catalog.Snapshot, err error) {
	if p.queries == nil {
		p.log.Fatal("connection is nil")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.Debug("parse schema")
	defer func() {
		p.log.Info("schema parsed", zap.Error(err))
	}()

	parser := parse.NewParser(string(p.cnf.DB.Driver), p.queries, p.log)
	s, err = parser.LoadSnapshot(ctx, p.cnf.Parser)
	if err != nil {
		var pErr queries.Error
		if errors.As(err, &pErr) {
			p.log.Error(pErr.Pretty())
		}
		return nil, xerrors.Errorf("parse schema: %w", err)
	}

	return s, nil
}
