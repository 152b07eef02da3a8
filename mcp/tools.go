// Package mcp exposes the schema description and join-path resolution as MCP
// tools served over stdio.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	goMCP "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/Feresey/joinpath/catalog"
	"github.com/Feresey/joinpath/joins"
	"github.com/Feresey/joinpath/schema"
)

const (
	FetchSchemaTablesTool = "fetch_schema_tables"
	FindJoinPathsTool     = "find_join_paths"
)

// SnapshotLoader returns the catalog snapshot a tool call works on.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context) (*catalog.Snapshot, error)
}

// StaticSnapshot serves the same snapshot to every call.
type StaticSnapshot struct {
	Snapshot *catalog.Snapshot
}

func (s StaticSnapshot) LoadSnapshot(context.Context) (*catalog.Snapshot, error) {
	return s.Snapshot, nil
}

type ToolHandler = func(context.Context, goMCP.CallToolRequest) (*goMCP.CallToolResult, error)

func NewServer(version string) *server.MCPServer {
	return server.NewMCPServer(
		"joinpath",
		version,
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)
}

func RegisterTools(s *server.MCPServer, loader SnapshotLoader, log *zap.Logger) {
	log = log.Named("mcp")

	fetchTool := goMCP.NewTool(FetchSchemaTablesTool,
		goMCP.WithDescription("Describe every table of the database: columns, primary keys, "+
			"foreign keys and the tables that reference it"),
	)

	joinTool := goMCP.NewTool(FindJoinPathsTool,
		goMCP.WithDescription("Find the shortest foreign key join chain from the first table "+
			"to each of the other tables"),
		goMCP.WithArray("tables",
			goMCP.Required(),
			goMCP.Description("Table names, the first one is the start table"),
			goMCP.Items(map[string]any{"type": "string"}),
		),
	)

	s.AddTool(fetchTool, FetchSchemaTablesHandler(loader, log))
	s.AddTool(joinTool, FindJoinPathsHandler(loader, log))
}

// FetchSchemaTablesHandler creates a handler for the fetch_schema_tables tool
func FetchSchemaTablesHandler(loader SnapshotLoader, log *zap.Logger) ToolHandler {
	return func(ctx context.Context, _ goMCP.CallToolRequest) (*goMCP.CallToolResult, error) {
		s, err := loader.LoadSnapshot(ctx)
		if err != nil {
			log.Error("failed to load snapshot", zap.Error(err))
			return goMCP.NewToolResultError(fmt.Sprintf("Load schema failed: %v", err)), nil
		}

		g, err := schema.Build(s.Tables)
		if err != nil {
			log.Error("failed to build schema graph", zap.Error(err))
			return goMCP.NewToolResultError(fmt.Sprintf("Build schema failed: %v", err)), nil
		}
		logDropped(log, g.Dropped())

		var buf bytes.Buffer
		if err := g.Dump(&buf, schema.DumpTablesTemplate); err != nil {
			return goMCP.NewToolResultError(fmt.Sprintf("Describe tables failed: %v", err)), nil
		}
		return goMCP.NewToolResultText(buf.String()), nil
	}
}

// FindJoinPathsHandler creates a handler for the find_join_paths tool
func FindJoinPathsHandler(loader SnapshotLoader, log *zap.Logger) ToolHandler {
	return func(ctx context.Context, request goMCP.CallToolRequest) (*goMCP.CallToolResult, error) {
		tables, err := tablesArgument(request)
		if err != nil {
			return goMCP.NewToolResultError(fmt.Sprintf("Invalid tables parameter: %v", err)), nil
		}

		s, err := loader.LoadSnapshot(ctx)
		if err != nil {
			log.Error("failed to load snapshot", zap.Error(err))
			return goMCP.NewToolResultError(fmt.Sprintf("Load schema failed: %v", err)), nil
		}

		res := joins.Find(s.Tables, tables)
		if len(res.Dropped) != 0 {
			log.Warn("foreign keys reference tables outside of the snapshot",
				zap.Strings("dropped", res.Dropped))
		}
		log.Debug("join paths resolved",
			zap.Strings("tables", tables),
			zap.String("status", string(res.Status)),
		)

		jsonData, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return goMCP.NewToolResultError(fmt.Sprintf("Failed to marshal results: %v", err)), nil
		}

		result := goMCP.NewToolResultText(string(jsonData))
		result.IsError = res.Status == joins.StatusError
		return result, nil
	}
}

func tablesArgument(request goMCP.CallToolRequest) ([]string, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("arguments are missing")
	}
	param, ok := args["tables"]
	if !ok {
		return nil, fmt.Errorf("required argument %q not found", "tables")
	}

	var tables []string
	switch v := param.(type) {
	case []string:
		tables = v
	case []any:
		tables = make([]string, 0, len(v))
		for idx, table := range v {
			name, ok := table.(string)
			if !ok {
				return nil, fmt.Errorf("element %d is %T, expected string", idx, table)
			}
			tables = append(tables, name)
		}
	default:
		return nil, fmt.Errorf("argument %q is %T, expected array of strings", "tables", param)
	}
	return tables, nil
}

func logDropped(log *zap.Logger, dropped []catalog.ForeignKey) {
	for _, fk := range dropped {
		log.Warn("foreign key references a table outside of the snapshot",
			zap.Stringer("key", fk))
	}
}
