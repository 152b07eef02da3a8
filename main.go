package main

import (
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/xerrors"

	"github.com/Feresey/joinpath/db"
)

const version = "0.1.0"

// newLogger пишет в stderr, stdout занят выводом команд и протоколом MCP.
func newLogger(debug bool) (*zap.Logger, error) {
	lc := zap.NewDevelopmentConfig()
	lc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	lc.DisableStacktrace = true
	lc.OutputPaths = []string{"stderr"}
	if debug {
		lc.Level.SetLevel(zap.DebugLevel)
	} else {
		lc.Level.SetLevel(zap.InfoLevel)
	}
	return lc.Build()
}

type flags struct {
	configPath *cli.StringFlag
	debug      *cli.BoolFlag
}

func (f *flags) Set() []cli.Flag {
	return []cli.Flag{
		f.configPath,
		f.debug,
	}
}

func main() {
	f := flags{
		configPath: &cli.StringFlag{
			Name:      "config",
			Value:     "joinpath.yml",
			Usage:     "config file path",
			TakesFile: true,
			Aliases:   []string{"c"},
		},
		debug: &cli.BoolFlag{
			Name:   "debug",
			Value:  false,
			Usage:  "show debug information",
			Hidden: true,
		},
	}

	app := &cli.App{
		Name:        "joinpath",
		Version:     version,
		Description: "foreign key join path finder",
		Flags:       f.Set(),
		Commands: []*cli.Command{
			NewParseCommand(f).Command(),
			NewPathsCommand(f).Command(),
			NewDumpCommand(f).Command(),
			NewServeCommand(f).Command(),
		},
		ExitErrHandler: func(ctx *cli.Context, err error) {
			if err == nil {
				return
			}
			if f.debug.Get(ctx) {
				fmt.Fprintf(os.Stderr, "%+v\n", err)
			} else {
				fmt.Fprintf(os.Stderr, "%v\n", err)
			}
			code := 1
			if coder, ok := err.(cli.ExitCoder); ok {
				code = coder.ExitCode()
			}
			os.Exit(code)
		},
		EnableBashCompletion: true,
	}
	if err := app.Run(os.Args); err != nil {
		println(err.Error())
		os.Exit(2)
	}
}

type BaseCommand struct {
	log *zap.Logger
	cnf *AppConfig
}

// NewBase reads the config file. Commands working on a snapshot file pass
// needConfig=false and get an empty config when the file is missing.
func NewBase(ctx *cli.Context, f flags, needConfig bool) (BaseCommand, error) {
	var empty BaseCommand
	log, err := newLogger(f.debug.Get(ctx))
	if err != nil {
		return empty, xerrors.Errorf("create logger: %w", err)
	}
	zap.ReplaceGlobals(log)

	configPath := f.configPath.Get(ctx)
	if !needConfig {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			log.Debug("config file not found", zap.String("path", configPath))
			return BaseCommand{log: log, cnf: &AppConfig{}}, nil
		}
	}
	cnf, err := ReadConfig(configPath)
	if err != nil {
		return empty, xerrors.Errorf("get config: %w", err)
	}
	log.Debug("config readed")

	return BaseCommand{
		log: log,
		cnf: cnf,
	}, nil
}

func (b *BaseCommand) connectDB(ctx *cli.Context, debug bool) (*pgx.Conn, error) {
	if debug {
		b.cnf.DB.SetDebug(true)
	}
	conn, err := db.NewDB(ctx.Context, b.log, b.cnf.DB)
	if err != nil {
		return nil, xerrors.Errorf("create database connection: %w", err)
	}
	b.log.Debug("connected to database")

	return conn, nil
}

func (b *BaseCommand) connectSQLite(ctx *cli.Context, debug bool) (*sqlx.DB, error) {
	if debug {
		b.cnf.DB.SetDebug(true)
	}
	conn, err := db.NewSQLite(ctx.Context, b.log, b.cnf.DB)
	if err != nil {
		return nil, xerrors.Errorf("open sqlite database: %w", err)
	}
	b.log.Debug("sqlite database opened")

	return conn, nil
}
