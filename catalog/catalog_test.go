package catalog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkReferences(t *testing.T) {
	fkOrders := ForeignKey{
		ReferencingTable:  "orders",
		ReferencingColumn: "customer_id",
		ReferencedTable:   "customers",
		ReferencedColumn:  "id",
	}
	fkMissing := ForeignKey{
		ReferencingTable:  "orders",
		ReferencingColumn: "shop_id",
		ReferencedTable:   "shops",
		ReferencedColumn:  "id",
	}
	tables := []Table{
		{Name: "customers", ReferencedBy: []ForeignKey{fkMissing}},
		{Name: "orders", ForeignKeys: []ForeignKey{fkOrders, fkMissing}},
	}

	LinkReferences(tables)

	assert.Equal(t, []ForeignKey{fkOrders}, tables[0].ReferencedBy)
	assert.Empty(t, tables[1].ReferencedBy)
}

func TestPrimaryKeys(t *testing.T) {
	table := Table{
		Name: "order_items",
		Columns: []Column{
			{Name: "order_id", Type: "integer", PrimaryKey: true},
			{Name: "amount", Type: "numeric(10,2)"},
			{Name: "product_id", Type: "integer", PrimaryKey: true},
		},
	}
	pks := table.PrimaryKeys()
	require.Len(t, pks, 2)
	assert.Equal(t, "order_id", pks[0].Name)
	assert.Equal(t, "product_id", pks[1].Name)
}

func TestSnapshotEncodeDecode(t *testing.T) {
	s := NewSnapshot("test", []Table{{
		Name:     "customers",
		RowCount: -1,
		Columns:  []Column{{Name: "id", Type: "integer", PrimaryKey: true}},
	}})

	var buf bytes.Buffer
	require.NoError(t, s.Encode(&buf))

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, s.Tables, got.Tables)
	assert.True(t, s.ReadAt.Equal(got.ReadAt))
}

func TestDecodeError(t *testing.T) {
	_, err := Decode(bytes.NewBufferString("{"))
	require.Error(t, err)
}
