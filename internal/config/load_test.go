package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %s", err)
	}
	return p
}

func TestLoadMergesAutoRulesDownTheTree(t *testing.T) {
	p := writeTemp(t, ".fnug.yaml", `
fnug_version: "0.1.0"
name: root
auto:
  git: true
  regex: ["\\.go$"]
  path: ["**/*.go"]
children:
  - name: backend
    auto:
      watch: true
      path: ["src"]
    commands:
      - name: test
        cmd: "go test ./..."
`)

	root, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %s", err)
	}

	backend := root.Group.Children[0]
	cmd := backend.Commands[0]

	if !cmd.Auto.IsGit() {
		t.Fatalf("expected git autorun inherited from root, got %+v", cmd.Auto)
	}
	if !cmd.Auto.IsWatch() {
		t.Fatalf("expected watch autorun set on backend group, got %+v", cmd.Auto)
	}
	if len(cmd.Auto.Path) != 1 || cmd.Auto.Path[0] != "src" {
		t.Fatalf("expected backend's path to take precedence, got %v", cmd.Auto.Path)
	}
	if len(cmd.Auto.Regex) != 1 || cmd.Auto.Regex[0] != `\.go$` {
		t.Fatalf("expected regex to fall through from root, got %v", cmd.Auto.Regex)
	}
}

func TestLoadRejectsGroupAutoSplitFromPath(t *testing.T) {
	// git/watch and path must be declared on the same node; a group that
	// enables watch while leaving path to an ancestor is rejected before
	// any inheritance merge runs.
	p := writeTemp(t, ".fnug.yaml", `
fnug_version: "0.1.0"
name: root
auto:
  path: ["**/*.go"]
children:
  - name: backend
    auto:
      watch: true
    commands:
      - name: test
        cmd: "go test ./..."
`)

	if _, err := Load(p); err == nil {
		t.Fatalf("expected ConfigInvalid for a group-level watch rule without its own path, got nil")
	}
}

func TestLoadRejectsEmptyGroup(t *testing.T) {
	p := writeTemp(t, ".fnug.yaml", `
fnug_version: "0.1.0"
name: root
children:
  - name: empty
`)

	if _, err := Load(p); err == nil {
		t.Fatalf("expected ConfigInvalid for empty group, got nil")
	}
}

func TestLoadRejectsGitAutoWithoutPath(t *testing.T) {
	p := writeTemp(t, ".fnug.yaml", `
fnug_version: "0.1.0"
name: root
commands:
  - name: lint
    cmd: "golangci-lint run"
    auto:
      git: true
`)

	if _, err := Load(p); err == nil {
		t.Fatalf("expected ConfigInvalid for git autorun without path, got nil")
	}
}

func TestLoadResolvesDependenciesByRelativePath(t *testing.T) {
	p := writeTemp(t, ".fnug.yaml", `
fnug_version: "0.1.0"
name: root
commands:
  - name: build
    cmd: "go build ./..."
  - name: test
    cmd: "go test ./..."
    depends: ["build"]
`)

	root, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %s", err)
	}

	var build, test *Command
	for _, c := range root.Group.Commands {
		switch c.Name {
		case "build":
			build = c
		case "test":
			test = c
		}
	}
	if build == nil || test == nil {
		t.Fatalf("expected both commands to be loaded")
	}
	if len(test.Depends) != 1 || test.Depends[0].TargetID != build.ID {
		t.Fatalf("expected test to depend on build's resolved id, got %+v", test.Depends)
	}
}

func TestLoadRejectsUnknownDependency(t *testing.T) {
	p := writeTemp(t, ".fnug.yaml", `
fnug_version: "0.1.0"
name: root
commands:
  - name: test
    cmd: "go test ./..."
    depends: ["nonexistent"]
`)

	if _, err := Load(p); err == nil {
		t.Fatalf("expected ConfigInvalid for unresolved dependency, got nil")
	}
}

func TestLoadJSON(t *testing.T) {
	p := writeTemp(t, ".fnug.json", `{
		"fnug_version": "0.1.0",
		"name": "root",
		"commands": [{"name": "lint", "cmd": "golangci-lint run"}]
	}`)

	root, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %s", err)
	}
	if len(root.Group.Commands) != 1 {
		t.Fatalf("expected one command, got %d", len(root.Group.Commands))
	}
}

func TestLoadAssignsStableIDsWhenUnset(t *testing.T) {
	p := writeTemp(t, ".fnug.yaml", `
fnug_version: "0.1.0"
name: root
commands:
  - name: lint
    cmd: "golangci-lint run"
`)

	root, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %s", err)
	}
	cmd := root.Group.Commands[0]
	if cmd.ID == "" {
		t.Fatalf("expected a generated id")
	}
	if root.CommandsByID[cmd.ID] != cmd {
		t.Fatalf("expected CommandsByID to index the generated id")
	}
	if root.Paths[cmd.ID] != "root.lint" {
		t.Fatalf("expected dotted path root.lint, got %q", root.Paths[cmd.ID])
	}
}

func TestLoadRejectsWrongVersion(t *testing.T) {
	p := writeTemp(t, ".fnug.yaml", `
fnug_version: "9.9.9"
name: root
commands:
  - name: lint
    cmd: "golangci-lint run"
`)

	if _, err := Load(p); err == nil {
		t.Fatalf("expected ConfigInvalid for unsupported version, got nil")
	}
}
