package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relmap/internal/relational"
)

// fakeRows serves string rows to the introspector.
type fakeRows struct {
	data   [][]string
	pos    int
	err    error
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}

	r.pos++

	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(row))
	}

	for i, d := range dest {
		s, ok := d.(*string)
		if !ok {
			return fmt.Errorf("scan: unsupported destination %T", d)
		}

		*s = row[i]
	}

	return nil
}

func (r *fakeRows) Values() ([]any, error) {
	row := r.data[r.pos-1]
	values := make([]any, len(row))

	for i, v := range row {
		values[i] = v
	}

	return values, nil
}

// fakeQuerier answers the introspection queries from canned rows.
type fakeQuerier struct {
	results map[string][][]string
	fail    map[string]error
	args    []any
	opened  []*fakeRows
}

func (q *fakeQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.args = args

	if err := q.fail[sql]; err != nil {
		return nil, err
	}

	rows := &fakeRows{data: q.results[sql]}
	q.opened = append(q.opened, rows)

	return rows, nil
}

func shopQuerier() *fakeQuerier {
	return &fakeQuerier{
		results: map[string][][]string{
			tablesQuery: {
				{"order_items"},
				{"orders"},
			},
			columnsQuery: {
				{"order_items", "order_id", "bigint", "NO"},
				{"order_items", "line_no", "integer", "NO"},
				{"order_items", "sku", "text", "YES"},
				{"order_summary", "total", "numeric", "YES"},
				{"orders", "id", "bigint", "NO"},
				{"orders", "code", "text", "NO"},
			},
			keysQuery: {
				{"order_items", "order_items_pkey", "PRIMARY KEY", "order_id"},
				{"order_items", "order_items_pkey", "PRIMARY KEY", "line_no"},
				{"orders", "orders_code_key", "UNIQUE", "code"},
				{"orders", "orders_pkey", "PRIMARY KEY", "id"},
			},
			foreignKeysQuery: {
				{"order_items", "fk_items_order", "order_id", "orders", "id", "CASCADE", "NO ACTION"},
			},
		},
	}
}

func TestIntrospector_LoadSchema(t *testing.T) {
	q := shopQuerier()

	cat, err := NewIntrospector(q).LoadSchema(context.Background(), "shop")
	require.NoError(t, err)

	assert.Equal(t, []any{"shop"}, q.args)
	assert.Equal(t, []string{"shop.order_items", "shop.orders"}, cat.TableNames())

	for _, rows := range q.opened {
		assert.True(t, rows.closed)
	}

	items := cat.Table("", "order_items")
	require.NotNil(t, items)
	require.Len(t, items.Columns(), 3)
	assert.Equal(t, "integer", items.LocateColumn("line_no").DataType)
	assert.True(t, items.LocateColumn("sku").Nullable)
	assert.Len(t, items.PrimaryKey(), 2)

	orders := cat.Table("", "orders")
	require.NotNil(t, orders)
	assert.Equal(t, "id", orders.PrimaryKey()[0].Name)
	assert.True(t, orders.LocateColumn("code").Unique)

	fk := items.LocateForeignKey("fk_items_order")
	require.NotNil(t, fk)
	assert.Same(t, orders, fk.TargetTable())
	assert.Equal(t, relational.Cascade, fk.OnDelete)
	assert.Equal(t, relational.NoAction, fk.OnUpdate)
	assert.Equal(t, "order_id", fk.SourceColumns()[0].Name)
	assert.Equal(t, "id", fk.TargetColumns()[0].Name)
}

func TestIntrospector_CompositeForeignKey(t *testing.T) {
	q := &fakeQuerier{
		results: map[string][][]string{
			tablesQuery: {{"a"}, {"b"}},
			columnsQuery: {
				{"a", "x", "int", "NO"},
				{"a", "y", "int", "NO"},
				{"b", "ax", "int", "YES"},
				{"b", "ay", "int", "YES"},
			},
			keysQuery: {
				{"a", "a_pkey", "PRIMARY KEY", "x"},
				{"a", "a_pkey", "PRIMARY KEY", "y"},
			},
			foreignKeysQuery: {
				{"b", "fk_b_a", "ax", "a", "x", "SET NULL", "CASCADE"},
				{"b", "fk_b_a", "ay", "a", "y", "SET NULL", "CASCADE"},
			},
		},
	}

	cat, err := NewIntrospector(q).LoadSchema(context.Background(), "public")
	require.NoError(t, err)

	b := cat.Table("", "b")
	require.Len(t, b.ForeignKeys(), 1)

	fk := b.ForeignKeys()[0]
	assert.Equal(t, 2, fk.ColumnSpan())
	assert.Equal(t, relational.SetNull, fk.OnDelete)
	assert.Equal(t, relational.Cascade, fk.OnUpdate)
}

func TestIntrospector_Errors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		mutate  func(q *fakeQuerier)
		wantMsg string
	}{
		{
			name:    "tables query fails",
			mutate:  func(q *fakeQuerier) { q.fail = map[string]error{tablesQuery: boom} },
			wantMsg: "failed to load tables of shop",
		},
		{
			name:    "columns query fails",
			mutate:  func(q *fakeQuerier) { q.fail = map[string]error{columnsQuery: boom} },
			wantMsg: "failed to load columns of shop",
		},
		{
			name: "key on unknown column",
			mutate: func(q *fakeQuerier) {
				q.results[keysQuery] = [][]string{{"orders", "orders_pkey", "PRIMARY KEY", "nope"}}
			},
			wantMsg: "failed to load keys of shop",
		},
		{
			name: "unknown referential action",
			mutate: func(q *fakeQuerier) {
				q.results[foreignKeysQuery] = [][]string{
					{"order_items", "fk", "order_id", "orders", "id", "EXPLODE", "NO ACTION"},
				}
			},
			wantMsg: "failed to load foreign keys of shop",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := shopQuerier()
			tt.mutate(q)

			cat, err := NewIntrospector(q).LoadSchema(context.Background(), "shop")
			require.Error(t, err)
			assert.Nil(t, cat)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestIntrospector_RowsError(t *testing.T) {
	boom := errors.New("connection reset")
	q := shopQuerier()

	cat, err := NewIntrospector(rowsErrQuerier{q, boom}).LoadSchema(context.Background(), "shop")
	require.ErrorIs(t, err, boom)
	assert.Nil(t, cat)
}

// rowsErrQuerier fails every result set after iteration.
type rowsErrQuerier struct {
	*fakeQuerier
	err error
}

func (q rowsErrQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	rows, err := q.fakeQuerier.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	rows.(*fakeRows).err = q.err

	return rows, nil
}
