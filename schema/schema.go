package schema

import (
	"fmt"
)

// Table описывает таблицу базы данных.
type Table struct {
	// имя таблицы
	Name string
	// Количество строк, -1 если неизвестно
	RowCount int64
	// мапа колонок, где ключ - имя колонки
	Columns map[string]*Column
	// порядок колонок в каталоге
	ColumnNames []string

	// Внешние ключи таблицы, ключ - имя таблицы, на которую ссылаются
	ForeignKeys Edges
	// Ключи, которые ссылаются на эту таблицу, ключ - ссылающаяся таблица
	ReferencedBy Edges
}

func (t *Table) String() string { return t.Name }

// OrderedColumns returns the columns in catalog order.
func (t *Table) OrderedColumns() []*Column {
	cols := make([]*Column, 0, len(t.ColumnNames))
	for _, name := range t.ColumnNames {
		cols = append(cols, t.Columns[name])
	}
	return cols
}

func (t *Table) PrimaryKeys() []*Column {
	var pks []*Column
	for _, col := range t.OrderedColumns() {
		if col.PrimaryKey {
			pks = append(pks, col)
		}
	}
	return pks
}

// Column описывает колонку таблицы.
type Column struct {
	// Имя колонки
	Name string
	// Тип колонки, как он объявлен в каталоге
	Type string
	// Входит ли колонка в PRIMARY KEY
	PrimaryKey bool
}

func (c *Column) String() string { return c.Name }

// ForeignKey описывает внешнюю связь между двумя колонками.
// Table(Column) REFERENCES Reference(ReferenceColumn).
type ForeignKey struct {
	// Имя CONSTRAINT-а (может быть пустым)
	Name string
	// Таблица, которой принадлежит внешний ключ
	Table  *Table
	Column string
	// Таблица, на которую ссылаются
	Reference       *Table
	ReferenceColumn string
}

func (f *ForeignKey) String() string {
	return fmt.Sprintf("%s(%s) -> %s(%s)",
		f.Table, f.Column, f.Reference, f.ReferenceColumn)
}

// IsSelfReference reports whether the key points back to its own table.
func (f *ForeignKey) IsSelfReference() bool { return f.Table == f.Reference }

// Edges is an insertion-ordered multimap of foreign keys grouped by the table
// on the other end of the key.
type Edges struct {
	order []string
	edges map[string][]*ForeignKey
}

func (e *Edges) add(table string, fk *ForeignKey) {
	if e.edges == nil {
		e.edges = make(map[string][]*ForeignKey)
	}
	list, ok := e.edges[table]
	if !ok {
		e.order = append(e.order, table)
	}
	e.edges[table] = append(list, fk)
}

// Tables returns the names of the tables on the other end, in insertion order.
func (e Edges) Tables() []string {
	res := make([]string, len(e.order))
	copy(res, e.order)
	return res
}

// Get returns the keys connecting to the given table, in catalog order.
func (e Edges) Get(table string) []*ForeignKey { return e.edges[table] }

// Len returns the total number of keys.
func (e Edges) Len() int {
	var n int
	for _, list := range e.edges {
		n += len(list)
	}
	return n
}

// Each calls fn for every key in traversal order: tables in insertion order,
// keys of a table in catalog order.
func (e Edges) Each(fn func(fk *ForeignKey)) {
	for _, table := range e.order {
		for _, fk := range e.edges[table] {
			fn(fk)
		}
	}
}

// All returns every key in traversal order.
func (e Edges) All() []*ForeignKey {
	res := make([]*ForeignKey, 0, e.Len())
	e.Each(func(fk *ForeignKey) { res = append(res, fk) })
	return res
}
