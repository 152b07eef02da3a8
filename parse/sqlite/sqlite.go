// Package sqlite reads the catalog of a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Feresey/joinpath/parse/queries"
)

const mainSchema = "main"

// Queries reads sqlite_master and table pragmas. Table OIDs are positions
// in the tables list, starting from 1.
type Queries struct {
	db *sqlx.DB

	names map[int]string
	oids  map[string]int
}

func New(db *sqlx.DB) *Queries {
	return &Queries{
		db:    db,
		names: make(map[int]string),
		oids:  make(map[string]int),
	}
}

func (q *Queries) Tables(ctx context.Context, p []queries.TablesPattern) ([]queries.Table, error) {
	query := `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`

	var (
		filters []string
		args    []any
	)
	for _, pattern := range p {
		if pattern.Tables == "" {
			filters = append(filters, "1 = 1")
			continue
		}
		filters = append(filters, "name LIKE ?")
		args = append(args, pattern.Tables)
	}
	if len(filters) != 0 {
		query += " AND (" + strings.Join(filters, " OR ") + ")"
	}
	query += " ORDER BY rowid ASC"

	var names []string
	if err := q.db.SelectContext(ctx, &names, query, args...); err != nil {
		return nil, queries.Error{Err: err, Message: "query", Query: query, Args: args}
	}

	q.names = make(map[int]string, len(names))
	q.oids = make(map[string]int, len(names))
	tables := make([]queries.Table, 0, len(names))
	for idx, name := range names {
		oid := idx + 1
		q.names[oid] = name
		q.oids[name] = oid
		tables = append(tables, queries.Table{
			OID:    oid,
			Schema: mainSchema,
			Table:  name,
		})
	}
	return tables, nil
}

type tableInfo struct {
	CID          int            `db:"cid"`
	Name         string         `db:"name"`
	Type         string         `db:"type"`
	NotNull      int            `db:"notnull"`
	DefaultValue sql.NullString `db:"dflt_value"`
	// Позиция колонки в PRIMARY KEY, 0 если не входит
	PK int `db:"pk"`
}

func (q *Queries) tableInfo(ctx context.Context, table string) ([]tableInfo, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", quote(table))
	var info []tableInfo
	if err := q.db.SelectContext(ctx, &info, query); err != nil {
		return nil, queries.Error{Err: err, Message: "table info", Query: query}
	}
	return info, nil
}

func (q *Queries) Columns(ctx context.Context, tableOIDs []int) ([]queries.Column, error) {
	var columns []queries.Column
	for _, oid := range tableOIDs {
		name, ok := q.names[oid]
		if !ok {
			return nil, fmt.Errorf("table with oid %d not found", oid)
		}
		info, err := q.tableInfo(ctx, name)
		if err != nil {
			return nil, err
		}
		for _, col := range info {
			columns = append(columns, queries.Column{
				TableOID:     oid,
				ColumnNum:    col.CID + 1,
				ColumnName:   col.Name,
				ColumnType:   strings.ToLower(col.Type),
				IsPrimaryKey: col.PK > 0,
			})
		}
	}
	return columns, nil
}

type foreignKeyInfo struct {
	ID       int            `db:"id"`
	Seq      int            `db:"seq"`
	Table    string         `db:"table"`
	From     string         `db:"from"`
	To       sql.NullString `db:"to"`
	OnUpdate string         `db:"on_update"`
	OnDelete string         `db:"on_delete"`
	Match    string         `db:"match"`
}

// ForeignKeys lists keys in declaration order. SQLite numbers the keys of a
// table from the last declared one, so ids are walked in reverse.
func (q *Queries) ForeignKeys(ctx context.Context, tableOIDs []int) ([]queries.ForeignKey, error) {
	var fks []queries.ForeignKey
	for _, oid := range tableOIDs {
		name, ok := q.names[oid]
		if !ok {
			return nil, fmt.Errorf("table with oid %d not found", oid)
		}
		query := fmt.Sprintf("PRAGMA foreign_key_list(%s)", quote(name))
		var list []foreignKeyInfo
		if err := q.db.SelectContext(ctx, &list, query); err != nil {
			return nil, queries.Error{Err: err, Message: "foreign key list", Query: query}
		}
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].ID != list[j].ID {
				return list[i].ID > list[j].ID
			}
			return list[i].Seq < list[j].Seq
		})

		for _, info := range list {
			to := info.To.String
			if !info.To.Valid || to == "" {
				// REFERENCES t без списка колонок ссылается на PRIMARY KEY
				pk, err := q.primaryKeyColumn(ctx, info.Table, info.Seq)
				if err != nil {
					return nil, err
				}
				to = pk
			}
			fks = append(fks, queries.ForeignKey{
				ConstraintOID:     info.ID,
				TableOID:          oid,
				ColumnName:        info.From,
				ForeignTableOID:   q.oids[info.Table],
				ForeignSchemaName: mainSchema,
				ForeignTableName:  info.Table,
				ForeignColumnName: to,
			})
		}
	}
	return fks, nil
}

func (q *Queries) primaryKeyColumn(ctx context.Context, table string, seq int) (string, error) {
	info, err := q.tableInfo(ctx, table)
	if err != nil {
		return "", err
	}
	for _, col := range info {
		if col.PK == seq+1 {
			return col.Name, nil
		}
	}
	// rowid таблица без явного PRIMARY KEY
	return "rowid", nil
}

func (q *Queries) RowCount(ctx context.Context, table queries.Table) (int64, error) {
	query := "SELECT count(*) FROM " + quote(table.Table)
	var count int64
	if err := q.db.GetContext(ctx, &count, query); err != nil {
		return 0, queries.Error{Err: err, Message: "count rows", Query: query}
	}
	return count, nil
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
