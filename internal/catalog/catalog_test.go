package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relmap/internal/mapping"
	"relmap/internal/relational"
)

const shopYAML = `
schema: shop
entities:
  - name: Order
    table: orders
    columns:
      - {name: id, type: bigint, nullable: false}
      - {name: code, unique: true}
      - tenant
      - {name: code_key, formula: lower(code)}
    primary_key: id
    unique_keys:
      - {name: uk_orders_code_tenant, columns: [code, tenant]}
  - name: Customer
    schema: crm
    columns: [id, region]
    primary_key: [id, region]
`

func shopCatalog(t *testing.T) *Catalog {
	t.Helper()

	mf, err := mapping.Parse([]byte(shopYAML))
	require.NoError(t, err)

	cat, err := FromMapping(mf)
	require.NoError(t, err)

	return cat
}

func TestFromMapping(t *testing.T) {
	cat := shopCatalog(t)

	assert.Equal(t, "shop", cat.DefaultSchema())
	assert.Equal(t, []string{"shop.orders", "crm.customer"}, cat.TableNames())

	orders := cat.Table("", "orders")
	require.NotNil(t, orders)
	assert.Same(t, orders, cat.Table("SHOP", "Orders"))

	id := orders.LocateColumn("id")
	require.NotNil(t, id)
	assert.Equal(t, "bigint", id.DataType)
	assert.False(t, id.Nullable)
	assert.True(t, orders.LocateColumn("code").Unique)
	assert.True(t, orders.LocateColumn("tenant").Nullable)
	assert.Len(t, orders.UniqueKeys(), 1)

	assert.Len(t, orders.Columns(), 3)
	assert.Nil(t, orders.LocateColumn("code_key"), "formulas are not stored columns")
	dv := orders.LocateDerivedValue("code_key")
	require.NotNil(t, dv)
	assert.Equal(t, "lower(code)", dv.Expression)

	customer := cat.Table("crm", "customer")
	require.NotNil(t, customer)
	assert.Len(t, customer.PrimaryKey(), 2)
	assert.Nil(t, cat.Table("", "customer"), "customer lives outside the default schema")
}

func TestFromMapping_Errors(t *testing.T) {
	mf, err := mapping.Parse([]byte(`
entities:
  - name: A
    columns: [id]
    primary_key: missing
`))
	require.NoError(t, err)

	_, err = FromMapping(mf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entity A")

	mf, err = mapping.Parse([]byte(`
entities:
  - name: A
  - name: B
    table: a
`))
	require.NoError(t, err)

	_, err = FromMapping(mf)
	require.Error(t, err)
}

func TestCatalog_AddTable(t *testing.T) {
	cat := New("public")

	require.ErrorIs(t, cat.AddTable(nil), ErrEmptyTableName)
	require.ErrorIs(t, cat.AddTable(relational.NewTable("", "")), ErrEmptyTableName)

	tbl := relational.NewTable("", "orders")
	require.NoError(t, cat.AddTable(tbl))
	assert.Equal(t, "public", tbl.Schema, "default schema applied")

	require.Error(t, cat.AddTable(relational.NewTable("public", "ORDERS")))

	got, created, err := cat.LocateOrCreateTable("public", "orders")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, tbl, got)

	items, created, err := cat.LocateOrCreateTable("", "order_items")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "public.order_items", items.QualifiedName())
	assert.Len(t, cat.Tables(), 2)
}

func TestCatalog_Merge(t *testing.T) {
	cat := shopCatalog(t)

	live := New("shop")
	orders := relational.NewTable("shop", "orders")
	require.NoError(t, live.AddTable(orders))

	for _, name := range []string{"id", "created_at"} {
		_, err := orders.CreateColumn(name)
		require.NoError(t, err)
	}

	orders.LocateColumn("created_at").DataType = "timestamp"
	require.NoError(t, orders.SetPrimaryKey("created_at"))

	audit := relational.NewTable("shop", "audit")
	require.NoError(t, live.AddTable(audit))
	_, err := audit.CreateColumn("id")
	require.NoError(t, err)
	require.NoError(t, audit.SetPrimaryKey("id"))
	require.NoError(t, audit.AddUniqueKey("uk_audit_id", "id"))

	items := relational.NewTable("shop", "order_items")
	require.NoError(t, live.AddTable(items))
	_, err = items.CreateColumn("order_id")
	require.NoError(t, err)

	liveFK, err := items.CreateForeignKey("fk_order_items_orders", orders)
	require.NoError(t, err)
	liveFK.OnDelete = relational.Cascade
	require.NoError(t, liveFK.AddColumnMapping(items.LocateColumn("order_id"), orders.LocateColumn("id")))

	require.NoError(t, cat.Merge(live))
	require.NoError(t, cat.Merge(nil))

	merged := cat.Table("shop", "orders")
	assert.Equal(t, "bigint", merged.LocateColumn("id").DataType, "declared column wins")
	require.NotNil(t, merged.LocateColumn("created_at"))
	assert.Equal(t, "timestamp", merged.LocateColumn("created_at").DataType)
	assert.Equal(t, "id", merged.PrimaryKey()[0].Name, "declared primary key wins")

	copied := cat.Table("shop", "audit")
	require.NotNil(t, copied)
	assert.NotSame(t, audit, copied)
	assert.Equal(t, "id", copied.PrimaryKey()[0].Name)
	assert.Len(t, copied.UniqueKeys(), 1)

	mergedItems := cat.Table("shop", "order_items")
	require.NotNil(t, mergedItems)
	require.Len(t, mergedItems.ForeignKeys(), 1)

	fk := mergedItems.LocateForeignKey("fk_order_items_orders")
	require.NotNil(t, fk)
	assert.NotSame(t, liveFK, fk)
	assert.Same(t, merged, fk.TargetTable(), "foreign key points at the declared table")
	assert.Same(t, merged.LocateColumn("id"), fk.TargetColumns()[0])
	assert.Same(t, mergedItems.LocateColumn("order_id"), fk.SourceColumns()[0])
	assert.Equal(t, relational.Cascade, fk.OnDelete)

	require.NoError(t, cat.Merge(live), "merging twice keeps one copy of each key")
	assert.Len(t, mergedItems.ForeignKeys(), 1)
}

func TestCatalog_MergeForeignKeyToUnknownTable(t *testing.T) {
	live := New("shop")

	ghost := relational.NewTable("shop", "ghost")
	_, err := ghost.CreateColumn("id")
	require.NoError(t, err)

	refs := relational.NewTable("shop", "refs")
	require.NoError(t, live.AddTable(refs))
	_, err = refs.CreateColumn("ghost_id")
	require.NoError(t, err)

	fk, err := refs.CreateForeignKey("fk_refs_ghost", ghost)
	require.NoError(t, err)
	require.NoError(t, fk.AddColumnMapping(refs.LocateColumn("ghost_id"), ghost.LocateColumn("id")))

	cat := shopCatalog(t)
	err = cat.Merge(live)
	require.ErrorIs(t, err, ErrTableNotFound)
	assert.Empty(t, cat.Table("shop", "refs").ForeignKeys())
}
