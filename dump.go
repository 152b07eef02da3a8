package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/Feresey/joinpath/schema"
)

type dumpFlags struct {
	flags
	schema     SchemaLoaderFlags
	outputPath *cli.StringFlag
}

func (f *dumpFlags) Set() []cli.Flag {
	return append(f.flags.Set(),
		f.schema.dumpPath,
		f.outputPath,
	)
}

// DumpCommand renders a snapshot as PlantUML and as the textual table
// description served to agents.
type DumpCommand struct {
	flags dumpFlags
	BaseCommand

	loader *SchemaLoader
}

func NewDumpCommand(f flags) *DumpCommand {
	return &DumpCommand{
		flags: dumpFlags{
			flags:  f,
			schema: NewSchemaLoaderFlags(),
			outputPath: &cli.StringFlag{
				Name:     "output",
				Usage:    "-o outdir",
				Required: true,
				Aliases:  []string{"o"},
			},
		},
	}
}

func (p *DumpCommand) Command() *cli.Command {
	return &cli.Command{
		Name:        "dump",
		Usage:       "render graph.puml and tables.txt",
		Description: "dump schema",
		Flags:       p.flags.Set(),
		Before:      p.Init,
		Action:      p.Run,
		After:       p.Cleanup,
	}
}

func (p *DumpCommand) Init(ctx *cli.Context) error {
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

func (p *DumpCommand) Cleanup(ctx *cli.Context) error {
	if p.loader == nil {
		return nil
	}
	return p.loader.Cleanup(ctx)
}

func (p *DumpCommand) Run(ctx *cli.Context) error {
	s, err := p.loader.LoadSnapshot(ctx.Context)
	if err != nil {
		return err
	}
	g, err := schema.Build(s.Tables)
	if err != nil {
		return xerrors.Errorf("build schema graph: %w", err)
	}
	return p.dumpToFiles(g, p.flags.outputPath.Get(ctx))
}

func (p *DumpCommand) dumpToFiles(g *schema.Graph, dumpPath string) error {
	slog := p.log.Sugar()

	if err := createDirIfNotExist(dumpPath); err != nil {
		return xerrors.Errorf("create dump dir: %w", err)
	}

	graphDumpPath := filepath.Join(dumpPath, "graph.puml")
	slog.Infof("dump graph to %q", graphDumpPath)
	if err := dumpTemplate(graphDumpPath, g, schema.DumpGrapthTemplate); err != nil {
		return xerrors.Errorf("failed to dump grapth: %w", err)
	}

	tablesDumpPath := filepath.Join(dumpPath, "tables.txt")
	slog.Infof("dump tables to %q", tablesDumpPath)
	if err := dumpTemplate(tablesDumpPath, g, schema.DumpTablesTemplate); err != nil {
		return xerrors.Errorf("failed to dump tables: %w", err)
	}

	return nil
}

func createDirIfNotExist(path string) error {
	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		// Папка не существует, создаем ее
		return os.MkdirAll(path, 0o755) //nolint:gomnd // dir mode
	}
	if err != nil {
		return err
	}
	if !fileInfo.IsDir() {
		return &os.PathError{Op: "mkdir", Path: path, Err: os.ErrExist}
	}
	return nil
}

func dumpTemplate(fileName string, g *schema.Graph, tpl schema.TemplateName) error {
	return dumpToFile(fileName, func(w io.Writer) error {
		return g.Dump(w, tpl)
	})
}
