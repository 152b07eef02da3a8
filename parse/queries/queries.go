package queries

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Table is a row of the tables query.
type Table struct {
	OID    int
	Schema string
	Table  string
}

// Column is a row of the columns query.
type Column struct {
	TableOID     int
	ColumnNum    int
	ColumnName   string
	ColumnType   string
	IsPrimaryKey bool
}

// ForeignKey is one column pair of a foreign key constraint.
type ForeignKey struct {
	ConstraintOID  int
	ConstraintName string

	TableOID   int
	ColumnName string

	// 0 если таблица не найдена среди загруженных
	ForeignTableOID   int
	ForeignSchemaName string
	ForeignTableName  string
	ForeignColumnName string
}

type TablesPattern struct {
	Schema string
	Tables string
}

// Queries reads the PostgreSQL system catalog.
type Queries struct {
	exec Executor
}

func New(exec Executor) Queries { return Queries{exec: exec} }

type queryBuiler struct {
	queries []string
	argnum  int
	args    []any
}

func (q *queryBuiler) NextArgNum() int {
	q.argnum++
	return q.argnum
}

func (q *queryBuiler) Append(query string, args ...any) {
	q.queries = append(q.queries, query)
	q.args = append(q.args, args...)
}

func (q Queries) Tables(ctx context.Context, p []TablesPattern) ([]Table, error) {
	const queryTablesSQL = `-- list tables
SELECT
	c.oid::INT AS table_oid,
	ns.nspname AS schema_name,
	c.relname AS table_name
FROM
	pg_class c
	JOIN pg_namespace ns ON ns.oid = c.relnamespace
WHERE
	c.relkind IN ('r', 'p')
	AND NOT c.relispartition`

	if len(p) == 0 {
		p = []TablesPattern{{Schema: "public"}}
	}

	var qb queryBuiler

	for _, pattern := range p {
		args := []any{pattern.Schema}
		paramIndex := qb.NextArgNum()
		schema := fmt.Sprintf("ns.nspname LIKE $%d", paramIndex)
		if pattern.Tables != "" {
			args = append(args, pattern.Tables)
			paramIndex := qb.NextArgNum()
			schema = fmt.Sprintf("%s AND c.relname LIKE $%d", schema, paramIndex)
		}

		qb.Append("("+schema+")", args...)
	}

	return QueryAll(
		ctx, q.exec,
		func(scan pgx.Rows, v *Table) error {
			return scan.Scan(
				&v.OID,
				&v.Schema,
				&v.Table,
			)
		},
		fmt.Sprintf(
			"%s AND (%s) ORDER BY c.oid ASC",
			queryTablesSQL,
			strings.Join(qb.queries, " OR "),
		),
		qb.args...)
}

//go:embed sql/columns.sql
var queryColumnsSQL string

func (q Queries) Columns(ctx context.Context, tableOIDs []int) ([]Column, error) {
	return QueryAll(
		ctx, q.exec,
		func(scan pgx.Rows, v *Column) error {
			return scan.Scan(
				&v.TableOID,
				&v.ColumnNum,
				&v.ColumnName,
				&v.ColumnType,
				&v.IsPrimaryKey,
			)
		},
		queryColumnsSQL, tableOIDs)
}

//go:embed sql/foreign_keys.sql
var queryForeignKeysSQL string

func (q Queries) ForeignKeys(ctx context.Context, tableOIDs []int) ([]ForeignKey, error) {
	return QueryAll(
		ctx, q.exec,
		func(scan pgx.Rows, v *ForeignKey) error {
			return scan.Scan(
				&v.ConstraintOID,
				&v.ConstraintName,

				&v.TableOID,
				&v.ColumnName,

				&v.ForeignTableOID,
				&v.ForeignSchemaName,
				&v.ForeignTableName,
				&v.ForeignColumnName,
			)
		},
		queryForeignKeysSQL, tableOIDs)
}

func (q Queries) RowCount(ctx context.Context, table Table) (int64, error) {
	query := "SELECT count(*) FROM " + pgx.Identifier{table.Schema, table.Table}.Sanitize()
	counts, err := QueryAll(
		ctx, q.exec,
		func(scan pgx.Rows, v *int64) error {
			return scan.Scan(v)
		},
		query)
	if err != nil {
		return 0, err
	}
	if len(counts) != 1 {
		return 0, Error{
			Err:     fmt.Errorf("expected one row, got %d", len(counts)),
			Message: "count rows",
			Query:   query,
		}
	}
	return counts[0], nil
}
