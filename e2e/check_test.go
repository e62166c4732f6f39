package e2e_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("fnug check", func() {
	It("passes a command that exits zero", func() {
		dir := tempDir()
		writeConfig(dir, `fnug_version: "0.1.0"
name: root
commands:
  - name: ok
    cmd: "echo hi"
    auto:
      always: true
`)
		out, code := runFnug(dir, "check")
		Expect(code).To(Equal(0))
		Expect(out).To(ContainSubstring("PASS ok"))
		Expect(out).To(ContainSubstring("1 commands passed"))
	})

	// Nonzero exit maps to FAIL and exit code 1.
	It("fails a command that exits nonzero", func() {
		dir := tempDir()
		writeConfig(dir, `fnug_version: "0.1.0"
name: root
commands:
  - name: bad
    cmd: "exit 7"
    auto:
      always: true
`)
		out, code := runFnug(dir, "check")
		Expect(code).To(Equal(1))
		Expect(out).To(ContainSubstring("FAIL bad"))
	})

	// Three one-second sleeps finish in ~1s, not ~3s.
	It("runs independent commands in parallel", func() {
		dir := tempDir()
		writeConfig(dir, `fnug_version: "0.1.0"
name: root
commands:
  - name: a
    cmd: "sleep 1"
    auto:
      always: true
  - name: b
    cmd: "sleep 1"
    auto:
      always: true
  - name: c
    cmd: "sleep 1"
    auto:
      always: true
`)
		start := time.Now()
		out, code := runFnug(dir, "check")
		elapsed := time.Since(start)

		Expect(code).To(Equal(0))
		Expect(out).To(ContainSubstring("3 commands passed"))
		Expect(elapsed).To(BeNumerically("<", 2500*time.Millisecond))
	})

	It("reports no-op when nothing is selected", func() {
		dir := tempDir()
		writeConfig(dir, `fnug_version: "0.1.0"
name: root
commands:
  - name: idle
    cmd: "echo hi"
`)
		out, code := runFnug(dir, "check")
		Expect(code).To(Equal(0))
		Expect(out).To(ContainSubstring("no commands selected"))
	})

	It("exits 2 on an invalid config", func() {
		dir := tempDir()
		writeConfig(dir, `fnug_version: "9.9.9"
name: root
commands:
  - name: ok
    cmd: "echo hi"
`)
		_, code := runFnug(dir, "check")
		Expect(code).To(Equal(2))
	})
})
