package config

import "gopkg.in/yaml.v3"

// effective mirrors rawRoot's shape but carries already-merged auto rules,
// used to re-emit the tree fnug actually runs with (`fnug config`), not the
// document as written on disk.
type effectiveAutoRule struct {
	Git    bool     `yaml:"git"`
	Watch  bool     `yaml:"watch"`
	Always bool     `yaml:"always"`
	Regex  []string `yaml:"regex,omitempty"`
	Path   []string `yaml:"path,omitempty"`
}

type effectiveDependency struct {
	Path   string `yaml:"path"`
	Always bool   `yaml:"always,omitempty"`
	Once   bool   `yaml:"once,omitempty"`
}

type effectiveCommand struct {
	ID          string                `yaml:"id"`
	Name        string                `yaml:"name"`
	Cmd         string                `yaml:"cmd"`
	Cwd         string                `yaml:"cwd,omitempty"`
	Interactive bool                  `yaml:"interactive,omitempty"`
	Auto        effectiveAutoRule     `yaml:"auto"`
	Depends     []effectiveDependency `yaml:"depends,omitempty"`
	Scrollback  int                   `yaml:"scrollback,omitempty"`
}

type effectiveGroup struct {
	ID       string             `yaml:"id"`
	Name     string             `yaml:"name"`
	Cwd      string             `yaml:"cwd,omitempty"`
	Env      map[string]string  `yaml:"env,omitempty"`
	Auto     effectiveAutoRule  `yaml:"auto"`
	Commands []effectiveCommand `yaml:"commands,omitempty"`
	Children []effectiveGroup   `yaml:"children,omitempty"`
}

type effectiveRoot struct {
	FnugVersion string         `yaml:"fnug_version"`
	Group       effectiveGroup `yaml:",inline"`
}

func dumpAuto(a AutoRule) effectiveAutoRule {
	return effectiveAutoRule{Git: a.IsGit(), Watch: a.IsWatch(), Always: a.IsAlways(), Regex: a.Regex, Path: a.Path}
}

func dumpCommand(root *Root, c *Command) effectiveCommand {
	ec := effectiveCommand{
		ID:          c.ID,
		Name:        c.Name,
		Cmd:         c.Cmd,
		Cwd:         c.Cwd,
		Interactive: c.Interactive,
		Auto:        dumpAuto(c.Auto),
		Scrollback:  c.Scrollback,
	}
	for _, d := range c.Depends {
		ec.Depends = append(ec.Depends, effectiveDependency{Path: root.Paths[d.TargetID], Always: d.Always, Once: d.Once})
	}
	return ec
}

func dumpGroup(root *Root, g *Group) effectiveGroup {
	eg := effectiveGroup{ID: g.ID, Name: g.Name, Cwd: g.Cwd, Env: g.Env, Auto: dumpAuto(g.Auto)}
	for _, c := range g.Commands {
		eg.Commands = append(eg.Commands, dumpCommand(root, c))
	}
	for _, child := range g.Children {
		eg.Children = append(eg.Children, dumpGroup(root, child))
	}
	return eg
}

// DumpYAML renders the frozen, effective configuration (after auto-rule
// propagation and dependency resolution) back to YAML. Used by
// `fnug config`; re-loading its output produces an equivalent tree.
func DumpYAML(root *Root) ([]byte, error) {
	out := effectiveRoot{FnugVersion: root.Version, Group: dumpGroup(root, root.Group)}
	return yaml.Marshal(out)
}
