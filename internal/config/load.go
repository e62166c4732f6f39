package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ConfigInvalid is returned by Load for any structural or semantic problem
// in the document. Error() includes a human-readable location.
type ConfigInvalid struct {
	Path   string
	Reason string
}

func (e *ConfigInvalid) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func invalid(loc, format string, args ...any) error {
	return &ConfigInvalid{Path: loc, Reason: fmt.Sprintf(format, args...)}
}

type rawAutoRule struct {
	Git    *bool    `yaml:"git" json:"git"`
	Watch  *bool    `yaml:"watch" json:"watch"`
	Always *bool    `yaml:"always" json:"always"`
	Regex  []string `yaml:"regex" json:"regex"`
	Path   []string `yaml:"path" json:"path"`
}

func (r rawAutoRule) toAutoRule() AutoRule {
	return AutoRule{Git: r.Git, Watch: r.Watch, Always: r.Always, Regex: r.Regex, Path: r.Path}
}

// validate checks a node's own declared rule, before any inheritance
// merge: enabling git or watch requires path on the same node, so a rule
// cannot split the flag and its paths across tree levels.
func (r rawAutoRule) validate(loc string) error {
	own := r.toAutoRule()
	if (own.IsGit() || own.IsWatch()) && len(own.Path) == 0 {
		return invalid(loc, "autorun with git/watch requires a non-empty path list")
	}
	return nil
}

// rawDependency accepts either a bare string (a relative path to another
// command) or an object with path/always/once
// `depends: [string | {path, always, once}]`.
type rawDependency struct {
	Path   string
	Always bool
	Once   bool
}

func (d *rawDependency) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&d.Path)
	}
	var obj struct {
		Path   string `yaml:"path"`
		Always bool   `yaml:"always"`
		Once   bool   `yaml:"once"`
	}
	if err := value.Decode(&obj); err != nil {
		return err
	}
	d.Path, d.Always, d.Once = obj.Path, obj.Always, obj.Once
	return nil
}

func (d *rawDependency) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		d.Path = s
		return nil
	}
	var obj struct {
		Path   string `json:"path"`
		Always bool   `json:"always"`
		Once   bool   `json:"once"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	d.Path, d.Always, d.Once = obj.Path, obj.Always, obj.Once
	return nil
}

type rawCommand struct {
	ID          string          `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	Cmd         string          `yaml:"cmd" json:"cmd"`
	Cwd         string          `yaml:"cwd" json:"cwd"`
	Interactive bool            `yaml:"interactive" json:"interactive"`
	Auto        rawAutoRule     `yaml:"auto" json:"auto"`
	Depends     []rawDependency `yaml:"depends" json:"depends"`
	Scrollback  int             `yaml:"scrollback" json:"scrollback"`
}

type rawGroup struct {
	ID       string            `yaml:"id" json:"id"`
	Name     string            `yaml:"name" json:"name"`
	Cwd      string            `yaml:"cwd" json:"cwd"`
	Env      map[string]string `yaml:"env" json:"env"`
	Auto     rawAutoRule       `yaml:"auto" json:"auto"`
	Commands []rawCommand      `yaml:"commands" json:"commands"`
	Children []rawGroup        `yaml:"children" json:"children"`
}

type rawRoot struct {
	rawGroup    `yaml:",inline" json:",inline"`
	FnugVersion string `yaml:"fnug_version" json:"fnug_version"`
}

// Load reads a YAML or JSON config file (chosen by suffix), validates it,
// propagates auto rules from parent to child exactly once, resolves
// dependency edges, and returns the frozen tree.
func Load(path string) (*Root, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var raw rawRoot
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, invalid(path, "parsing YAML: %s", err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, invalid(path, "parsing JSON: %s", err)
		}
	}

	if raw.FnugVersion != SupportedVersion {
		return nil, invalid(path, "unsupported fnug_version %q (expected %q)", raw.FnugVersion, SupportedVersion)
	}

	root := &Root{
		Version:      raw.FnugVersion,
		CommandsByID: map[string]*Command{},
		GroupsByID:   map[string]*Group{},
		Paths:        map[string]string{},
	}

	group, err := buildGroup(root, raw.rawGroup, nil, AutoRule{}, "")
	if err != nil {
		return nil, err
	}
	root.Group = group

	if err := resolveDependencies(root); err != nil {
		return nil, err
	}

	return root, nil
}

// buildGroup recursively constructs the tree, assigning ids, propagating
// auto rules (parent merged into child, child fields winning, computed
// once), and indexing paths.
func buildGroup(root *Root, raw rawGroup, parent *Group, inherited AutoRule, pathPrefix string) (*Group, error) {
	id := raw.ID
	if id == "" {
		id = uuid.NewString()
	}
	if _, dup := root.GroupsByID[id]; dup {
		return nil, invalid(pathPrefix, "duplicate group id %q", id)
	}

	logicalPath := raw.Name
	if pathPrefix != "" {
		logicalPath = pathPrefix + "." + raw.Name
	}

	if err := raw.Auto.validate(logicalPath); err != nil {
		return nil, err
	}

	g := &Group{
		ID:     id,
		Name:   raw.Name,
		Cwd:    raw.Cwd,
		Env:    raw.Env,
		Auto:   raw.Auto.toAutoRule().merge(inherited),
		Parent: parent,
	}
	root.Paths[id] = logicalPath
	root.GroupsByID[id] = g

	if len(raw.Commands) == 0 && len(raw.Children) == 0 {
		return nil, invalid(logicalPath, "group %q has no commands and no child groups", raw.Name)
	}

	for _, rc := range raw.Commands {
		cmd, err := buildCommand(root, rc, g, g.Auto, logicalPath)
		if err != nil {
			return nil, err
		}
		g.Commands = append(g.Commands, cmd)
	}

	for _, rg := range raw.Children {
		child, err := buildGroup(root, rg, g, g.Auto, logicalPath)
		if err != nil {
			return nil, err
		}
		g.Children = append(g.Children, child)
	}

	return g, nil
}

func buildCommand(root *Root, raw rawCommand, parent *Group, inherited AutoRule, pathPrefix string) (*Command, error) {
	id := raw.ID
	if id == "" {
		id = uuid.NewString()
	}
	if _, dup := root.CommandsByID[id]; dup {
		return nil, invalid(pathPrefix, "duplicate command id %q", id)
	}

	logicalPath := pathPrefix
	if logicalPath != "" {
		logicalPath += "."
	}
	logicalPath += raw.Name

	if err := raw.Auto.validate(logicalPath); err != nil {
		return nil, err
	}
	if raw.Cmd == "" {
		return nil, invalid(logicalPath, "command %q has no cmd", raw.Name)
	}

	cmd := &Command{
		ID:          id,
		Name:        raw.Name,
		Cmd:         raw.Cmd,
		Cwd:         raw.Cwd,
		Interactive: raw.Interactive,
		Auto:        raw.Auto.toAutoRule().merge(inherited),
		Scrollback:  raw.Scrollback,
		Parent:      parent,
	}

	root.CommandsByID[id] = cmd
	root.Paths[id] = logicalPath

	for _, rd := range raw.Depends {
		cmd.Depends = append(cmd.Depends, Dependency{TargetID: rd.Path, Always: rd.Always, Once: rd.Once})
	}

	return cmd, nil
}

// resolveDependencies turns each Dependency.TargetID (currently holding a
// raw relative or dotted path, as written in the yaml) into the resolved
// command id, failing if it does not resolve to a real command. A target
// is tried first as an absolute dotted path, then relative to the
// depending command's own group, then as a literal id.
func resolveDependencies(root *Root) error {
	byPath := make(map[string]string, len(root.Paths))
	for id, p := range root.Paths {
		if _, isCmd := root.CommandsByID[id]; isCmd {
			byPath[p] = id
		}
	}

	for id, cmd := range root.CommandsByID {
		for i, dep := range cmd.Depends {
			target := dep.TargetID
			if target == "" {
				return invalid(root.Paths[id], "empty dependency path")
			}
			// Absolute dotted path, or relative to the command's own group.
			if resolved, ok := byPath[target]; ok {
				cmd.Depends[i].TargetID = resolved
				continue
			}
			if cmd.Parent != nil {
				rel := root.Paths[cmd.Parent.ID] + "." + target
				if resolved, ok := byPath[rel]; ok {
					cmd.Depends[i].TargetID = resolved
					continue
				}
			}
			if _, ok := root.CommandsByID[target]; ok {
				continue // already a resolved id
			}
			return invalid(root.Paths[id], "dependency %q does not resolve to a known command", target)
		}
	}
	return nil
}
