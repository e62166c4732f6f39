package e2e_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("fnug git auto-selection", func() {
	// A dirty watched path selects the command for the check run.
	It("selects a command whose watched path has a modified file", func() {
		dir := tempRepo()
		writeFile(dir, "src/main.go", "package main\n")
		git(dir, "add", ".")
		git(dir, "commit", "-m", "add src")

		writeConfig(dir, `fnug_version: "0.1.0"
name: root
commands:
  - name: lint
    cmd: "echo linting"
    auto:
      git: true
      path: ["src"]
`)
		writeFile(dir, "src/main.go", "package main\n\nfunc main() {}\n")

		out, code := runFnug(dir, "check")
		Expect(code).To(Equal(0))
		Expect(out).To(ContainSubstring("PASS lint"))
	})

	It("does not select a command whose watched path has no changes", func() {
		dir := tempRepo()
		writeFile(dir, "src/main.go", "package main\n")
		writeFile(dir, "docs/readme.md", "docs\n")
		git(dir, "add", ".")
		git(dir, "commit", "-m", "add files")

		writeConfig(dir, `fnug_version: "0.1.0"
name: root
commands:
  - name: lint
    cmd: "echo linting"
    auto:
      git: true
      path: ["src"]
`)
		writeFile(dir, "docs/readme.md", "docs changed\n")

		out, code := runFnug(dir, "check")
		Expect(code).To(Equal(0))
		Expect(out).To(ContainSubstring("no commands selected"))
	})
})
