package main

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/Feresey/joinpath/mcp"
)

type serveFlags struct {
	flags
	schema SchemaLoaderFlags
}

func (f *serveFlags) Set() []cli.Flag {
	return append(f.flags.Set(),
		f.schema.dumpPath,
	)
}

type ServeCommand struct {
	flags serveFlags
	BaseCommand

	loader *SchemaLoader
}

func NewServeCommand(f flags) *ServeCommand {
	return &ServeCommand{
		flags: serveFlags{
			flags:  f,
			schema: NewSchemaLoaderFlags(),
		},
	}
}

func (p *ServeCommand) Command() *cli.Command {
	return &cli.Command{
		Name:        "serve",
		Usage:       "serve schema tools over MCP stdio",
		Description: "mcp server",
		Flags:       p.flags.Set(),
		Before:      p.Init,
		Action:      p.Run,
		After:       p.Cleanup,
	}
}

func (p *ServeCommand) Init(ctx *cli.Context) error {
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

func (p *ServeCommand) Cleanup(ctx *cli.Context) error {
	if p.loader == nil {
		return nil
	}
	return p.loader.Cleanup(ctx)
}

func (p *ServeCommand) Run(ctx *cli.Context) error {
	var loader mcp.SnapshotLoader = p.loader
	if p.loader.FromFile() {
		// снимок из файла не меняется, читаем его один раз
		s, err := p.loader.LoadSnapshot(ctx.Context)
		if err != nil {
			return err
		}
		loader = mcp.StaticSnapshot{Snapshot: s}
	}

	s := mcp.NewServer(version)
	mcp.RegisterTools(s, loader, p.log)
	p.log.Info("serving tools over stdio")

	if err := server.ServeStdio(s); err != nil {
		return xerrors.Errorf("serve stdio: %w", err)
	}
	return nil
}
