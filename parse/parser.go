package parse

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"github.com/Feresey/joinpath/catalog"
	"github.com/Feresey/joinpath/parse/queries"
)

type Config struct {
	Patterns []Pattern
	// Подсчитывать количество строк в таблицах
	RowCounts bool
}

type Pattern struct {
	Schema string
	Tables string
}

// Таблицы этих схем называются без имени схемы.
const (
	defaultSchema = "public"
	sqliteSchema  = "main"
)

type Parser struct {
	source string
	log    *zap.Logger
	q      Queries
}

//go:generate mockery --name Queries --inpackage --testonly --with-expecter --quiet
type Queries interface {
	Tables(context.Context, []queries.TablesPattern) ([]queries.Table, error)
	Columns(context.Context, []int) ([]queries.Column, error)
	ForeignKeys(context.Context, []int) ([]queries.ForeignKey, error)
	RowCount(context.Context, queries.Table) (int64, error)
}

func NewParser(
	source string,
	q Queries,
	log *zap.Logger,
) *Parser {
	return &Parser{
		source: source,
		log:    log.Named("parser"),
		q:      q,
	}
}

type loadState struct {
	tables map[int]*catalog.Table
	rows   map[int]queries.Table
	order  []int
}

// LoadSnapshot reads tables, columns and foreign keys in one pass and returns
// an immutable snapshot of them.
func (p *Parser) LoadSnapshot(ctx context.Context, conf Config) (*catalog.Snapshot, error) {
	patterns := make([]queries.TablesPattern, 0, len(conf.Patterns))
	for _, p := range conf.Patterns {
		patterns = append(patterns, queries.TablesPattern(p))
	}

	st := &loadState{
		tables: make(map[int]*catalog.Table),
		rows:   make(map[int]queries.Table),
	}

	if err := p.loadTables(ctx, st, patterns); err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	tableOIDs := mapKeys(st.tables)
	if err := p.loadTablesColumns(ctx, st, tableOIDs); err != nil {
		return nil, fmt.Errorf("load tables columns: %w", err)
	}
	if err := p.loadForeignKeys(ctx, st, tableOIDs); err != nil {
		return nil, fmt.Errorf("load foreign keys: %w", err)
	}
	if conf.RowCounts {
		if err := p.loadRowCounts(ctx, st); err != nil {
			return nil, fmt.Errorf("load row counts: %w", err)
		}
	}

	tables := make([]catalog.Table, 0, len(st.order))
	for _, oid := range st.order {
		tables = append(tables, *st.tables[oid])
	}
	catalog.LinkReferences(tables)

	s := catalog.NewSnapshot(p.source, tables)
	p.log.Debug("snapshot loaded",
		zap.Stringer("id", s.ID),
		zap.Int("tables", len(tables)),
	)
	return s, nil
}

// loadTables получает имена таблиц, найденных в схемах.
func (p *Parser) loadTables(
	ctx context.Context,
	st *loadState,
	patterns []queries.TablesPattern,
) error {
	tables, err := p.q.Tables(ctx, patterns)
	if err != nil {
		p.log.Error("failed to query tables", zap.Error(err))
		return err
	}
	p.log.Debug("loaded tables", zap.Reflect("tables", tables))

	names := make(map[string]int, len(tables))
	for _, dbtable := range tables {
		name := tableName(dbtable.Schema, dbtable.Table)
		if oid, ok := names[name]; ok {
			return fmt.Errorf("duplicate table %q with oids %d and %d", name, oid, dbtable.OID)
		}
		names[name] = dbtable.OID

		st.tables[dbtable.OID] = &catalog.Table{
			Name:     name,
			RowCount: -1,
		}
		st.rows[dbtable.OID] = dbtable
		st.order = append(st.order, dbtable.OID)
	}

	return nil
}

// loadTablesColumns загружает колонки таблиц.
func (p *Parser) loadTablesColumns(
	ctx context.Context,
	st *loadState,
	tableOIDs []int,
) error {
	columns, err := p.q.Columns(ctx, tableOIDs)
	if err != nil {
		p.log.Error("failed to query tables columns", zap.Error(err))
		return err
	}
	p.log.Debug("columns loaded", zap.Int("n", len(columns)))

	for _, dbcolumn := range columns {
		table, ok := st.tables[dbcolumn.TableOID]
		if !ok {
			err := fmt.Errorf("table with oid %d not found", dbcolumn.TableOID)
			p.log.Error("failed to get table for column", zap.Error(err))
			return err
		}
		table.Columns = append(table.Columns, catalog.Column{
			Name:       dbcolumn.ColumnName,
			Type:       dbcolumn.ColumnType,
			PrimaryKey: dbcolumn.IsPrimaryKey,
		})
	}

	return nil
}

// loadForeignKeys загружает внешние ключи. Ключи на таблицы вне снимка
// сохраняются с полным именем таблицы, граф их отбросит.
func (p *Parser) loadForeignKeys(
	ctx context.Context,
	st *loadState,
	tableOIDs []int,
) error {
	fks, err := p.q.ForeignKeys(ctx, tableOIDs)
	if err != nil {
		p.log.Error("failed to query foreign keys", zap.Error(err))
		return err
	}
	p.log.Debug("loaded foreign keys", zap.Int("n", len(fks)))

	for _, dbfk := range fks {
		table, ok := st.tables[dbfk.TableOID]
		if !ok {
			return fmt.Errorf("unable to find table with oid %d", dbfk.TableOID)
		}

		reference := tableName(dbfk.ForeignSchemaName, dbfk.ForeignTableName)
		if ftable, ok := st.tables[dbfk.ForeignTableOID]; ok {
			reference = ftable.Name
		} else {
			p.log.Debug("foreign table is not in snapshot",
				zap.String("constraint", dbfk.ConstraintName),
				zap.String("table", table.Name),
				zap.String("reference", reference),
			)
		}

		table.ForeignKeys = append(table.ForeignKeys, catalog.ForeignKey{
			Name:              dbfk.ConstraintName,
			ReferencingTable:  table.Name,
			ReferencingColumn: dbfk.ColumnName,
			ReferencedTable:   reference,
			ReferencedColumn:  dbfk.ForeignColumnName,
		})
	}
	return nil
}

func (p *Parser) loadRowCounts(ctx context.Context, st *loadState) error {
	for _, oid := range st.order {
		count, err := p.q.RowCount(ctx, st.rows[oid])
		if err != nil {
			p.log.Error("failed to count rows",
				zap.String("table", st.tables[oid].Name),
				zap.Error(err))
			return err
		}
		st.tables[oid].RowCount = count
	}
	return nil
}

func tableName(schemaName, table string) string {
	if schemaName == "" || schemaName == defaultSchema || schemaName == sqliteSchema {
		return table
	}
	return schemaName + "." + table
}

func mapKeys[K ~string | ~int, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
