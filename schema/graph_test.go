package schema

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Feresey/joinpath/catalog"
)

func fk(from, fromCol, to, toCol string) catalog.ForeignKey {
	return catalog.ForeignKey{
		ReferencingTable:  from,
		ReferencingColumn: fromCol,
		ReferencedTable:   to,
		ReferencedColumn:  toCol,
	}
}

func idTable(name string, fks ...catalog.ForeignKey) catalog.Table {
	return catalog.Table{
		Name:        name,
		RowCount:    -1,
		Columns:     []catalog.Column{{Name: "id", Type: "integer", PrimaryKey: true}},
		ForeignKeys: fks,
	}
}

// shopTables is the customers/orders/order_items/products schema.
func shopTables() []catalog.Table {
	tables := []catalog.Table{
		idTable("customers"),
		idTable("orders", fk("orders", "customer_id", "customers", "id")),
		idTable("order_items", fk("order_items", "order_id", "orders", "id")),
		idTable("products"),
	}
	catalog.LinkReferences(tables)
	return tables
}

func TestBuild(t *testing.T) {
	r := require.New(t)
	g, err := Build(shopTables())
	r.NoError(err)

	r.Equal([]string{"customers", "orders", "order_items", "products"}, g.TableNames())
	r.Empty(g.Dropped())

	orders := g.Tables["orders"]
	r.Equal(1, orders.ForeignKeys.Len())
	r.Equal([]string{"customers"}, orders.ForeignKeys.Tables())
	r.Equal(1, orders.ReferencedBy.Len())
	r.Equal([]string{"order_items"}, orders.ReferencedBy.Tables())

	customers := g.Tables["customers"]
	r.Equal(0, customers.ForeignKeys.Len())
	r.Equal(1, customers.ReferencedBy.Len())

	// одно и то же ребро видно с обеих сторон
	r.Same(orders.ForeignKeys.Get("customers")[0], customers.ReferencedBy.Get("orders")[0])
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		tables []catalog.Table
	}{
		{
			"Duplicate Table",
			[]catalog.Table{idTable("a"), idTable("a")},
		},
		{
			"Empty Name",
			[]catalog.Table{idTable("")},
		},
		{
			"Duplicate Column",
			[]catalog.Table{{
				Name: "a",
				Columns: []catalog.Column{
					{Name: "id", Type: "integer"},
					{Name: "id", Type: "text"},
				},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tt.tables)
			require.Nil(t, g)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidInput), "%v", err)
			require.False(t, errors.Is(err, ErrInconsistentCatalog))
		})
	}
}

func TestBuildDropsDangling(t *testing.T) {
	r := require.New(t)
	tables := []catalog.Table{
		idTable("orders",
			fk("orders", "customer_id", "customers", "id"),
			fk("orders", "parent_id", "orders", "id"),
		),
		{
			Name:         "payments",
			ReferencedBy: []catalog.ForeignKey{fk("refunds", "payment_id", "payments", "id")},
		},
	}

	g, err := Build(tables)
	r.NoError(err)
	r.Equal([]catalog.ForeignKey{
		fk("orders", "customer_id", "customers", "id"),
		fk("refunds", "payment_id", "payments", "id"),
	}, g.Dropped())

	orders := g.Tables["orders"]
	r.Equal([]string{"orders"}, orders.ForeignKeys.Tables())
	r.True(orders.ForeignKeys.Get("orders")[0].IsSelfReference())
	r.Equal(1, orders.ReferencedBy.Len())
	r.Equal(0, g.Tables["payments"].ReferencedBy.Len())
}

func TestBuildMergesBothSides(t *testing.T) {
	r := require.New(t)
	tables := []catalog.Table{
		{
			Name: "airports",
			// только с одной стороны
			ReferencedBy: []catalog.ForeignKey{
				fk("flights", "destination_id", "airports", "id"),
				{ReferencingTable: "flights", ReferencingColumn: "gate_id", ReferencedColumn: "id"},
			},
		},
		{
			Name: "flights",
			ForeignKeys: []catalog.ForeignKey{
				{ReferencingColumn: "origin_id", ReferencedTable: "airports", ReferencedColumn: "id"},
				fk("flights", "destination_id", "airports", "id"),
			},
		},
	}

	g, err := Build(tables)
	r.NoError(err)
	r.Empty(g.Dropped())

	keys := g.Tables["flights"].ForeignKeys.Get("airports")
	r.Len(keys, 3)
	cols := make([]string, 0, len(keys))
	for _, key := range keys {
		cols = append(cols, key.Column)
	}
	r.Equal([]string{"origin_id", "destination_id", "gate_id"}, cols)

	// входящие ключи идут в порядке ReferencedBy, затем объявленные только в flights
	incoming := g.Tables["airports"].ReferencedBy.Get("flights")
	r.Equal([]*ForeignKey{keys[1], keys[2], keys[0]}, incoming)
}

func TestBuildIncomingOrder(t *testing.T) {
	r := require.New(t)
	tables := []catalog.Table{
		idTable("a", fk("a", "b_id", "b", "id"), fk("a", "d_id", "d", "id")),
		{
			Name:    "b",
			Columns: []catalog.Column{{Name: "id", Type: "integer", PrimaryKey: true}},
			ReferencedBy: []catalog.ForeignKey{
				fk("c", "b_id", "b", "id"),
				fk("a", "b_id", "b", "id"),
			},
		},
		idTable("c", fk("c", "b_id", "b", "id"), fk("c", "d_id", "d", "id")),
		idTable("d"),
	}

	g, err := Build(tables)
	r.NoError(err)
	r.Equal([]string{"c", "a"}, g.Tables["b"].ReferencedBy.Tables())

	paths, err := g.ShortestPaths("b")
	r.NoError(err)
	node, ok := paths.Node("d")
	r.True(ok)
	r.Equal(2, node.Distance)
	r.Equal("c", node.Prev)
}

func TestBuildEmpty(t *testing.T) {
	g, err := Build(nil)
	require.NoError(t, err)
	require.Empty(t, g.Tables)
	require.Empty(t, g.Components())
}

func TestComponents(t *testing.T) {
	tables := []struct {
		name     string
		tables   []catalog.Table
		expected [][]string
	}{
		{
			"Shop",
			shopTables(),
			[][]string{{"customers", "orders", "order_items"}, {"products"}},
		},
		{
			"No Relationships",
			[]catalog.Table{idTable("1"), idTable("2")},
			[][]string{{"1"}, {"2"}},
		},
		{
			"Self-Referencing Table",
			[]catalog.Table{idTable("1", fk("1", "parent", "1", "id"))},
			[][]string{{"1"}},
		},
		{
			"Reverse Declaration Order",
			[]catalog.Table{
				idTable("1"),
				idTable("2"),
				idTable("3", fk("3", "a", "2", "id")),
				idTable("4", fk("4", "a", "1", "id"), fk("4", "b", "3", "id")),
			},
			[][]string{{"1", "2", "3", "4"}},
		},
	}

	for _, tt := range tables {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tt.tables)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, g.Components())
		})
	}
}

func TestErrorFormat(t *testing.T) {
	err := newError(KindInvalidInput, "unknown start table %q", "x")
	assert.Equal(t, `invalid_input: unknown start table "x"`, err.Error())
	assert.Contains(t, fmt.Sprintf("%+v", err), "graph_test.go")
	assert.True(t, errors.Is(fmt.Errorf("wrap: %w", err), ErrInvalidInput))
}
