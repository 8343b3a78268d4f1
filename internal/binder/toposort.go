package binder

import (
	"strings"

	"relmap/internal/relational"
)

// cycleError lists the tables whose foreign keys reference each other.
type cycleError struct {
	tables []*relational.Table
}

func (e *cycleError) Error() string {
	names := make([]string, len(e.tables))
	for i, t := range e.tables {
		names[i] = t.QualifiedName()
	}

	return "foreign keys form a cycle between " + strings.Join(names, ", ")
}

// sortTables orders tables so that each one follows the tables it references.
// Among tables that are ready, input order wins. Self references and
// references to tables outside the slice are ignored. When no order exists
// the error is a *cycleError naming the tables on the cycle.
func sortTables(tables []*relational.Table) ([]*relational.Table, error) {
	index := make(map[*relational.Table]int, len(tables))
	for i, t := range tables {
		index[t] = i
	}

	waiting := make([]int, len(tables))
	dependents := make([][]int, len(tables))

	for i, t := range tables {
		for _, ref := range t.ReferencedTables() {
			j, ok := index[ref]
			if !ok || j == i {
				continue
			}

			waiting[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	placed := make([]bool, len(tables))
	ordered := make([]*relational.Table, 0, len(tables))

	for len(ordered) < len(tables) {
		next := -1

		for i := range tables {
			if !placed[i] && waiting[i] == 0 {
				next = i
				break
			}
		}

		if next < 0 {
			return nil, &cycleError{tables: cycleMembers(tables, placed, dependents)}
		}

		placed[next] = true
		ordered = append(ordered, tables[next])

		for _, d := range dependents[next] {
			waiting[d]--
		}
	}

	return ordered, nil
}

// cycleMembers strips the unplaced tables that nothing unplaced depends on,
// until only tables on a cycle remain.
func cycleMembers(tables []*relational.Table, placed []bool, dependents [][]int) []*relational.Table {
	left := make([]bool, len(tables))
	for i := range tables {
		left[i] = !placed[i]
	}

	for changed := true; changed; {
		changed = false

		for i := range tables {
			if !left[i] {
				continue
			}

			needed := false

			for _, d := range dependents[i] {
				if left[d] {
					needed = true
					break
				}
			}

			if !needed {
				left[i] = false
				changed = true
			}
		}
	}

	var members []*relational.Table

	for i, t := range tables {
		if left[i] {
			members = append(members, t)
		}
	}

	return members
}
