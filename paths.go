package main

import (
	"encoding/json"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/Feresey/joinpath/joins"
)

type pathsFlags struct {
	flags
	schema SchemaLoaderFlags
}

func (f *pathsFlags) Set() []cli.Flag {
	return append(f.flags.Set(),
		f.schema.dumpPath,
	)
}

type PathsCommand struct {
	flags pathsFlags
	BaseCommand

	loader *SchemaLoader
}

func NewPathsCommand(f flags) *PathsCommand {
	return &PathsCommand{
		flags: pathsFlags{
			flags:  f,
			schema: NewSchemaLoaderFlags(),
		},
	}
}

func (p *PathsCommand) Command() *cli.Command {
	return &cli.Command{
		Name:        "paths",
		Usage:       "print join chains from the start table to the target tables",
		ArgsUsage:   "start_table [target_table...]",
		Description: "find join paths",
		Flags:       p.flags.Set(),
		Before:      p.Init,
		Action:      p.Run,
		After:       p.Cleanup,
	}
}

func (p *PathsCommand) Init(ctx *cli.Context) error {
	filename := p.flags.schema.Filename(ctx)
	base, err := NewBase(ctx, p.flags.flags, filename == "")
	if err != nil {
		return cli.Exit(err, 2)
	}
	p.BaseCommand = base
	loader, err := NewSchemaLoader(ctx, base, p.flags.flags, filename)
	if err != nil {
		return err
	}
	p.loader = loader
	return nil
}

func (p *PathsCommand) Cleanup(ctx *cli.Context) error {
	if p.loader == nil {
		return nil
	}
	return p.loader.Cleanup(ctx)
}

func (p *PathsCommand) Run(ctx *cli.Context) error {
	s, err := p.loader.LoadSnapshot(ctx.Context)
	if err != nil {
		return err
	}

	res := joins.Find(s.Tables, ctx.Args().Slice())
	if len(res.Dropped) != 0 {
		p.log.Warn("foreign keys reference tables outside of the snapshot",
			zap.Strings("dropped", res.Dropped))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return xerrors.Errorf("encode result: %w", err)
	}
	if res.Status == joins.StatusError {
		return cli.Exit(xerrors.Errorf("%s: %s", res.Error.Kind, res.Error.Message), 1)
	}
	return nil
}
