package tree

import "github.com/fnug/fnug/internal/config"

// FromConfig derives the structural Tree that New needs from a loaded,
// frozen configuration. It is kept as a thin adapter so this package does
// not otherwise depend on internal/config.
func FromConfig(root *config.Root) Tree {
	t := Tree{RootGroupID: root.Group.ID, Groups: map[string]GroupNode{}}
	var walk func(g *config.Group, parentID string)
	walk = func(g *config.Group, parentID string) {
		gn := GroupNode{ParentID: parentID}
		for _, c := range g.Commands {
			gn.Commands = append(gn.Commands, c.ID)
			t.Commands = append(t.Commands, c.ID)
		}
		for _, child := range g.Children {
			gn.Children = append(gn.Children, child.ID)
		}
		t.Groups[g.ID] = gn
		for _, child := range g.Children {
			walk(child, g.ID)
		}
	}
	walk(root.Group, "")
	return t
}
