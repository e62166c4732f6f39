package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDumpYAMLRoundTrips(t *testing.T) {
	p := writeTemp(t, ".fnug.yaml", `
fnug_version: "0.1.0"
name: root
auto:
  git: true
  path: ["**/*.go"]
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

	out, err := DumpYAML(root)
	if err != nil {
		t.Fatalf("DumpYAML: %s", err)
	}

	roundTripPath := filepath.Join(filepath.Dir(p), "roundtrip.yaml")
	if err := os.WriteFile(roundTripPath, out, 0o644); err != nil {
		t.Fatalf("writing round-trip file: %s", err)
	}

	reloaded, err := Load(roundTripPath)
	if err != nil {
		t.Fatalf("Load(round-trip): %s", err)
	}

	if len(reloaded.Group.Commands) != len(root.Group.Commands) {
		t.Fatalf("command count changed across round trip: %d vs %d",
			len(reloaded.Group.Commands), len(root.Group.Commands))
	}
	for i, c := range root.Group.Commands {
		rc := reloaded.Group.Commands[i]
		if rc.Name != c.Name || rc.Cmd != c.Cmd {
			t.Fatalf("command %d changed across round trip: %+v vs %+v", i, rc, c)
		}
		if rc.Auto.IsGit() != c.Auto.IsGit() || rc.Auto.IsWatch() != c.Auto.IsWatch() {
			t.Fatalf("auto rule changed across round trip for %q", c.Name)
		}
	}
}
