package catalog

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"relmap/internal/relational"
)

const shopDDL = `
CREATE SCHEMA shop;

CREATE TABLE shop.orders (
	id   bigint PRIMARY KEY,
	code text NOT NULL UNIQUE
);

CREATE TABLE shop.order_items (
	order_id bigint NOT NULL,
	line_no  integer NOT NULL,
	sku      text,
	PRIMARY KEY (order_id, line_no),
	CONSTRAINT fk_items_order FOREIGN KEY (order_id)
		REFERENCES shop.orders (id) ON DELETE CASCADE
);

CREATE VIEW shop.order_summary AS
	SELECT order_id, count(*) AS lines FROM shop.order_items GROUP BY order_id;
`

func TestIntrospector_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("relmap"),
		postgres.WithUsername("relmap"),
		postgres.WithPassword("relmap"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, shopDDL)
	require.NoError(t, err)

	cat, err := NewIntrospector(pool).LoadSchema(ctx, "shop")
	require.NoError(t, err)

	assert.Equal(t, []string{"shop.order_items", "shop.orders"}, cat.TableNames())

	items := cat.Table("", "order_items")
	require.NotNil(t, items)
	assert.Len(t, items.Columns(), 3)
	assert.Len(t, items.PrimaryKey(), 2)
	assert.True(t, items.LocateColumn("sku").Nullable)

	orders := cat.Table("", "orders")
	require.NotNil(t, orders)
	assert.True(t, orders.LocateColumn("code").Unique)

	fk := items.LocateForeignKey("fk_items_order")
	require.NotNil(t, fk)
	assert.Same(t, orders, fk.TargetTable())
	assert.Equal(t, relational.Cascade, fk.OnDelete)

	v, err := cat.Resolver(orders).ResolveColumn("", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, "shop.orders.id", v.(*relational.Column).String())
}
