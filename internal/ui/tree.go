package ui

import (
	"sort"

	"github.com/fnug/fnug/internal/config"
	"github.com/fnug/fnug/internal/tree"
)

// fuzzyMatch wraps tree.FuzzyMatch with the best-match-first ordering the
// command palette needs; tree.FuzzyMatch itself returns results in map
// iteration order.
func fuzzyMatch(paths map[string]string, query string) []tree.Match {
	matches := tree.FuzzyMatch(paths, query)
	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	return matches
}

// row is one flattened, displayable line in the tree pane: either a group
// header or a command leaf, at a given indentation depth. Flattening the
// nested tree into a cursor-addressable slice keeps cursor movement and
// hit-testing a plain index operation.
type row struct {
	depth     int
	isGroup   bool
	groupID   string
	commandID string
	name      string
}

// flatten walks g depth-first, honoring state's expansion flags: a
// collapsed group contributes its own header row but none of its
// descendants.
func flatten(g *config.Group, state *tree.State, depth int) []row {
	rows := []row{{depth: depth, isGroup: true, groupID: g.ID, name: g.Name}}
	if !state.Expanded(g.ID) {
		return rows
	}
	for _, cmd := range g.Commands {
		rows = append(rows, row{depth: depth + 1, isGroup: false, commandID: cmd.ID, groupID: g.ID, name: cmd.Name})
	}
	for _, child := range g.Children {
		rows = append(rows, flatten(child, state, depth+1)...)
	}
	return rows
}

// flattenRoot flattens the whole config tree starting at its root group,
// which is always shown expanded (depth 0 has no header row of its own).
func flattenRoot(root *config.Root, state *tree.State) []row {
	var rows []row
	for _, cmd := range root.Group.Commands {
		rows = append(rows, row{depth: 0, isGroup: false, commandID: cmd.ID, groupID: root.Group.ID, name: cmd.Name})
	}
	for _, child := range root.Group.Children {
		rows = append(rows, flatten(child, state, 0)...)
	}
	return rows
}

// firstCommandID returns the id of the first runnable command in rows at
// or after from, or "" when there is none.
func firstCommandID(rows []row, from int) string {
	for i := from; i < len(rows); i++ {
		if !rows[i].isGroup {
			return rows[i].commandID
		}
	}
	return ""
}
