package main

import (
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/Feresey/joinpath/schema"
)

type parseFlags struct {
	flags
	outputPath *cli.StringFlag
	graphPath  *cli.StringFlag
}

func (pf *parseFlags) Set() []cli.Flag {
	return append(pf.flags.Set(),
		pf.outputPath,
		pf.graphPath,
	)
}

type parseCommand struct {
	pf parseFlags
	BaseCommand

	loader *SchemaLoader
}

func NewParseCommand(f flags) *parseCommand {
	return &parseCommand{
		pf: parseFlags{
			flags: f,
			outputPath: &cli.StringFlag{
				Name:     "output",
				Usage:    "-o snapshot.json, - for stdout",
				Required: true,
				Aliases:  []string{"o"},
			},
			graphPath: &cli.StringFlag{
				Name:  "graph",
				Usage: "--graph graph.puml",
			},
		},
	}
}

func (p *parseCommand) Command() *cli.Command {
	return &cli.Command{
		Name:        "parse",
		Usage:       "read the database catalog and dump a snapshot",
		Description: "parse schema",
		Flags:       p.pf.Set(),
		Before:      p.init,
		Action:      p.run,
		After:       p.cleanup,
	}
}

func (p *parseCommand) init(ctx *cli.Context) error {
	base, err := NewBase(ctx, p.pf.flags, true)
	if err != nil {
		return cli.Exit(err, 2)
	}
	p.BaseCommand = base
	loader, err := NewSchemaLoader(ctx, base, p.pf.flags, "")
	if err != nil {
		return err
	}
	p.loader = loader
	return nil
}

func (p *parseCommand) cleanup(ctx *cli.Context) error {
	if p.loader == nil {
		return nil
	}
	return p.loader.Cleanup(ctx)
}

func (p *parseCommand) run(ctx *cli.Context) error {
	s, err := p.loader.LoadSnapshot(ctx.Context)
	if err != nil {
		return err
	}

	g, err := schema.Build(s.Tables)
	if err != nil {
		return xerrors.Errorf("build schema graph: %w", err)
	}
	for _, fk := range g.Dropped() {
		p.log.Warn("foreign key references a table outside of the snapshot",
			zap.Stringer("key", fk))
	}

	outputPath := p.pf.outputPath.Get(ctx)
	p.log.Sugar().Infof("dump snapshot to %q", outputPath)
	if err := dumpToFile(outputPath, s.Encode); err != nil {
		return xerrors.Errorf("failed to dump snapshot: %w", err)
	}

	if graphPath := p.pf.graphPath.Get(ctx); graphPath != "" {
		p.log.Sugar().Infof("dump graph to %q", graphPath)
		if err := dumpToFile(graphPath, func(w io.Writer) error {
			return g.Dump(w, schema.DumpGrapthTemplate)
		}); err != nil {
			return xerrors.Errorf("failed to dump grapth: %w", err)
		}
	}
	return nil
}

func dumpToFile(fileName string, f func(w io.Writer) error) (err error) {
	if fileName == stdinFileName {
		return f(os.Stdout)
	}
	file, err := os.Create(fileName)
	if err != nil {
		return xerrors.Errorf("create output file for dump: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	return f(file)
}
