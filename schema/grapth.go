package schema

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/Feresey/joinpath/catalog"
)

// Graph is the read-only structural model of one catalog snapshot.
type Graph struct {
	// map[имя_таблицы]таблица
	Tables map[string]*Table

	// порядок таблиц в каталоге
	order []string
	// внешние ключи, которые ссылаются на таблицы вне снимка
	dropped []catalog.ForeignKey
}

// Build materializes every foreign key from both endpoints.
// Outgoing lists follow ForeignKeys order, incoming lists follow ReferencedBy
// order. A key listed on one side only is appended to the other side after
// the listed ones. Identical facts are stored once. A key whose tables are
// not in the list is dropped and reported by Dropped.
func Build(tables []catalog.Table) (*Graph, error) {
	g := &Graph{
		Tables: make(map[string]*Table, len(tables)),
		order:  make([]string, 0, len(tables)),
	}

	for idx := range tables {
		table, err := newTable(&tables[idx])
		if err != nil {
			return nil, err
		}
		if _, ok := g.Tables[table.Name]; ok {
			return nil, newError(KindInvalidInput, "duplicate table %q", table.Name)
		}
		g.Tables[table.Name] = table
		g.order = append(g.order, table.Name)
	}

	b := edgeBuilder{
		g:        g,
		edges:    make(map[catalog.ForeignKey]*ForeignKey),
		dropped:  mapset.NewThreadUnsafeSet[catalog.ForeignKey](),
		incoming: mapset.NewThreadUnsafeSet[*ForeignKey](),
	}
	for _, ct := range tables {
		for _, fk := range ct.ForeignKeys {
			if fk.ReferencingTable == "" {
				fk.ReferencingTable = ct.Name
			}
			b.edge(fk)
		}
	}
	for _, ct := range tables {
		for _, fk := range ct.ReferencedBy {
			if fk.ReferencedTable == "" {
				fk.ReferencedTable = ct.Name
			}
			if edge := b.edge(fk); edge != nil && !b.incoming.Contains(edge) {
				b.incoming.Add(edge)
				edge.Reference.ReferencedBy.add(edge.Table.Name, edge)
			}
		}
	}
	// ключи, объявленные только со стороны ссылающейся таблицы
	for _, edge := range b.order {
		if !b.incoming.Contains(edge) {
			edge.Reference.ReferencedBy.add(edge.Table.Name, edge)
		}
	}

	return g, nil
}

type edgeBuilder struct {
	g *Graph
	// ключи в порядке первого появления
	order    []*ForeignKey
	edges    map[catalog.ForeignKey]*ForeignKey
	dropped  mapset.Set[catalog.ForeignKey]
	incoming mapset.Set[*ForeignKey]
}

// edge returns the stored key for the fact, adding it to the outgoing list of
// the referencing table on first sight. Nil means the fact was dropped.
func (b *edgeBuilder) edge(fk catalog.ForeignKey) *ForeignKey {
	if edge, ok := b.edges[fk]; ok {
		return edge
	}
	if b.dropped.Contains(fk) {
		return nil
	}

	from, okFrom := b.g.Tables[fk.ReferencingTable]
	to, okTo := b.g.Tables[fk.ReferencedTable]
	if !okFrom || !okTo {
		b.dropped.Add(fk)
		b.g.dropped = append(b.g.dropped, fk)
		return nil
	}

	edge := &ForeignKey{
		Name:            fk.Name,
		Table:           from,
		Column:          fk.ReferencingColumn,
		Reference:       to,
		ReferenceColumn: fk.ReferencedColumn,
	}
	b.edges[fk] = edge
	b.order = append(b.order, edge)
	from.ForeignKeys.add(to.Name, edge)
	return edge
}

func newTable(ct *catalog.Table) (*Table, error) {
	if ct.Name == "" {
		return nil, newError(KindInvalidInput, "table without name")
	}
	table := &Table{
		Name:        ct.Name,
		RowCount:    ct.RowCount,
		Columns:     make(map[string]*Column, len(ct.Columns)),
		ColumnNames: make([]string, 0, len(ct.Columns)),
	}
	for _, col := range ct.Columns {
		if _, ok := table.Columns[col.Name]; ok {
			return nil, newError(KindInvalidInput,
				"duplicate column %q in table %q", col.Name, ct.Name)
		}
		table.Columns[col.Name] = &Column{
			Name:       col.Name,
			Type:       col.Type,
			PrimaryKey: col.PrimaryKey,
		}
		table.ColumnNames = append(table.ColumnNames, col.Name)
	}
	return table, nil
}

// TableNames returns table names in catalog order.
func (g *Graph) TableNames() []string {
	res := make([]string, len(g.order))
	copy(res, g.order)
	return res
}

// OrderedTables returns tables in catalog order.
func (g *Graph) OrderedTables() []*Table {
	res := make([]*Table, 0, len(g.order))
	for _, name := range g.order {
		res = append(res, g.Tables[name])
	}
	return res
}

// Dropped returns the foreign keys that referenced tables outside the snapshot.
func (g *Graph) Dropped() []catalog.ForeignKey {
	res := make([]catalog.ForeignKey, len(g.dropped))
	copy(res, g.dropped)
	return res
}

// Components returns the connected components of the graph, ignoring key
// direction. Components and tables inside them are in catalog order.
func (g *Graph) Components() [][]string {
	position := make(map[string]int, len(g.order))
	for idx, name := range g.order {
		position[name] = idx
	}

	visited := mapset.NewThreadUnsafeSet[string]()
	var components [][]string
	for _, name := range g.order {
		if visited.Contains(name) {
			continue
		}
		comp := g.bfs(name, visited)
		sort.Slice(comp, func(i, j int) bool { return position[comp[i]] < position[comp[j]] })
		components = append(components, comp)
	}
	return components
}

func (g *Graph) bfs(start string, visited mapset.Set[string]) []string {
	queue := []string{start}
	visited.Add(start)
	var result []string

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		table := g.Tables[node]
		for _, neighbors := range []Edges{table.ForeignKeys, table.ReferencedBy} {
			for _, neighbor := range neighbors.Tables() {
				if !visited.Contains(neighbor) {
					visited.Add(neighbor)
					queue = append(queue, neighbor)
				}
			}
		}
	}

	return result
}
