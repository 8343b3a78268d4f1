package binder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relmap/internal/relational"
)

// linkedTables creates one table per name and a foreign key for every
// from -> to pair in refs.
func linkedTables(t *testing.T, names []string, refs map[string][]string) []*relational.Table {
	t.Helper()

	byName := map[string]*relational.Table{}
	tables := make([]*relational.Table, len(names))

	for i, n := range names {
		tables[i] = relational.NewTable("app", n)
		byName[n] = tables[i]
	}

	for from, targets := range refs {
		for _, to := range targets {
			target := byName[to]
			if target == nil {
				target = relational.NewTable("other", to)
			}

			_, err := byName[from].CreateForeignKey("fk_"+from+"_"+to, target)
			require.NoError(t, err)
		}
	}

	return tables
}

func qualifiedNames(tables []*relational.Table) []string {
	out := make([]string, len(tables))
	for i, t := range tables {
		out[i] = t.QualifiedName()
	}

	return out
}

func TestSortTables_Order(t *testing.T) {
	tables := linkedTables(t, []string{"a", "b", "c", "d"}, map[string][]string{
		"a": {"c"},
		"b": {"a"},
	})

	ordered, err := sortTables(tables)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.c", "app.a", "app.b", "app.d"}, qualifiedNames(ordered))
}

func TestSortTables_Empty(t *testing.T) {
	ordered, err := sortTables(nil)
	require.NoError(t, err)
	assert.Empty(t, ordered)
}

func TestSortTables_IgnoresSelfAndOutsideReferences(t *testing.T) {
	tables := linkedTables(t, []string{"node", "leaf"}, map[string][]string{
		"node": {"node", "leaf"},
		"leaf": {"elsewhere"},
	})

	ordered, err := sortTables(tables)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.leaf", "app.node"}, qualifiedNames(ordered))
}

func TestSortTables_Cycle(t *testing.T) {
	tables := linkedTables(t, []string{"a", "b", "c", "d", "e"}, map[string][]string{
		"a": {"d"},
		"b": {"a"},
		"c": {"b"},
		"d": {"b"},
	})

	_, err := sortTables(tables)

	var ce *cycleError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"app.a", "app.b", "app.d"}, qualifiedNames(ce.tables), "c only depends on the cycle")
	assert.EqualError(t, err, "foreign keys form a cycle between app.a, app.b, app.d")
}
