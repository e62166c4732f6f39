package e2e_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("fnug config", func() {
	// Loading a config and re-serializing the effective tree
	// to YAML produces a document whose re-parse equals the first parse.
	It("round-trips the effective configuration through YAML", func() {
		dir := tempDir()
		writeConfig(dir, `fnug_version: "0.1.0"
name: root
auto:
  watch: false
children:
  - name: lint
    auto:
      git: true
      path: ["src"]
    commands:
      - name: eslint
        cmd: "eslint ."
      - name: stylelint
        cmd: "stylelint '**/*.css'"
`)
		first, code := runFnug(dir, "config")
		Expect(code).To(Equal(0))
		Expect(first).To(ContainSubstring("eslint"))
		Expect(first).To(ContainSubstring("git: true"))

		reparsed := filepath.Join(dir, "effective.yaml")
		Expect(os.WriteFile(reparsed, []byte(first), 0o644)).To(Succeed())

		second, code := runFnug(dir, "config", "--config", reparsed)
		Expect(code).To(Equal(0))
		Expect(second).To(Equal(first))
	})
})
