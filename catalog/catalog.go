// Package catalog describes the raw structural facts read from a database:
// tables, columns, primary keys and foreign keys.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Snapshot is an immutable, point-in-time capture of the schema structure.
type Snapshot struct {
	// Идентификатор снимка, меняется при каждом чтении каталога
	ID uuid.UUID `json:"id"`
	// Источник снимка (postgres, sqlite, file)
	Source string `json:"source,omitempty"`
	// Время чтения каталога
	ReadAt time.Time `json:"read_at"`
	// Таблицы в порядке, в котором их вернул каталог
	Tables []Table `json:"tables"`
}

func NewSnapshot(source string, tables []Table) *Snapshot {
	return &Snapshot{
		ID:     uuid.New(),
		Source: source,
		ReadAt: time.Now().UTC(),
		Tables: tables,
	}
}

// Table is one table descriptor.
type Table struct {
	Name string `json:"name"`
	// Количество строк, -1 если не подсчитывалось
	RowCount int64    `json:"row_count"`
	Columns  []Column `json:"columns"`
	// Внешние ключи этой таблицы
	ForeignKeys []ForeignKey `json:"foreign_keys,omitempty"`
	// Внешние ключи других таблиц, которые ссылаются на эту
	ReferencedBy []ForeignKey `json:"referenced_by,omitempty"`
}

func (t Table) String() string { return t.Name }

// PrimaryKeys returns the primary key columns in catalog order.
func (t Table) PrimaryKeys() []Column {
	var pks []Column
	for _, col := range t.Columns {
		if col.PrimaryKey {
			pks = append(pks, col)
		}
	}
	return pks
}

type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	PrimaryKey bool   `json:"primary_key,omitempty"`
}

func (c Column) String() string { return c.Name + " " + c.Type }

// ForeignKey is a single column pair of a foreign key constraint.
// Multi-column constraints are stored as one ForeignKey per pair.
type ForeignKey struct {
	// Имя CONSTRAINT-а, может быть пустым
	Name string `json:"name,omitempty"`

	ReferencingTable  string `json:"referencing_table"`
	ReferencingColumn string `json:"referencing_column"`
	ReferencedTable   string `json:"referenced_table"`
	ReferencedColumn  string `json:"referenced_column"`
}

func (f ForeignKey) String() string {
	return fmt.Sprintf("%s(%s) references %s(%s)",
		f.ReferencingTable, f.ReferencingColumn,
		f.ReferencedTable, f.ReferencedColumn)
}

// LinkReferences fills ReferencedBy of every table from the ForeignKeys of the
// whole list. Existing ReferencedBy entries are replaced.
func LinkReferences(tables []Table) {
	index := make(map[string]int, len(tables))
	for idx := range tables {
		tables[idx].ReferencedBy = nil
		index[tables[idx].Name] = idx
	}
	for _, table := range tables {
		for _, fk := range table.ForeignKeys {
			idx, ok := index[fk.ReferencedTable]
			if !ok {
				continue
			}
			tables[idx].ReferencedBy = append(tables[idx].ReferencedBy, fk)
		}
	}
}

func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}

func (s *Snapshot) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
