package queries

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordExecutor struct {
	query string
	args  []any
	err   error
}

func (r *recordExecutor) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	r.query = query
	r.args = args
	return nil, r.err
}

func TestTablesPatterns(t *testing.T) {
	tests := []struct {
		name     string
		patterns []TablesPattern
		where    string
		args     []any
	}{
		{
			name:  "default",
			where: "((ns.nspname LIKE $1))",
			args:  []any{"public"},
		},
		{
			name:     "schema and tables",
			patterns: []TablesPattern{{Schema: "public", Tables: "order%"}},
			where:    "((ns.nspname LIKE $1 AND c.relname LIKE $2))",
			args:     []any{"public", "order%"},
		},
		{
			name: "several",
			patterns: []TablesPattern{
				{Schema: "public", Tables: "order%"},
				{Schema: "billing"},
			},
			where: "((ns.nspname LIKE $1 AND c.relname LIKE $2) OR (ns.nspname LIKE $3))",
			args:  []any{"public", "order%", "billing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &recordExecutor{err: errors.New("no database")}
			_, err := New(exec).Tables(context.Background(), tt.patterns)
			require.Error(t, err)

			var qErr Error
			require.True(t, errors.As(err, &qErr))
			assert.Equal(t, "query", qErr.Message)
			assert.Contains(t, qErr.Query, tt.where)
			assert.Contains(t, qErr.Query, "ORDER BY c.oid ASC")
			assert.Equal(t, tt.args, qErr.Args)
			assert.Equal(t, tt.args, exec.args)
		})
	}
}

func TestQueriesArgs(t *testing.T) {
	exec := &recordExecutor{err: errors.New("no database")}
	q := New(exec)
	oids := []int{10, 20}

	_, err := q.Columns(context.Background(), oids)
	require.Error(t, err)
	assert.Equal(t, queryColumnsSQL, exec.query)
	assert.Equal(t, []any{oids}, exec.args)

	_, err = q.ForeignKeys(context.Background(), oids)
	require.Error(t, err)
	assert.Equal(t, queryForeignKeysSQL, exec.query)

	_, err = q.RowCount(context.Background(), Table{Schema: "public", Table: "order items"})
	require.Error(t, err)
	assert.Equal(t, `SELECT count(*) FROM "public"."order items"`, exec.query)
}

func TestErrorPretty(t *testing.T) {
	cause := errors.New("relation does not exist")
	err := Error{
		Err:     cause,
		Message: "query",
		Query:   "SELECT 1",
		Args:    []any{[]int{1, 2}},
	}
	assert.Equal(t, "query: relation does not exist", err.Error())
	assert.True(t, errors.Is(err, cause))
	pretty := err.Pretty()
	assert.Contains(t, pretty, "SELECT 1")
	assert.Contains(t, pretty, "([]int) (len=2 cap=2)")
}
