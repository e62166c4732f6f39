package e2e_test

import (
	"os"
	"os/exec"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// tempDir creates a scratch directory cleaned up after the test.
func tempDir() string {
	dir, err := os.MkdirTemp("", "fnug-test-*")
	Expect(err).NotTo(HaveOccurred())
	DeferCleanup(func() { os.RemoveAll(dir) })
	return dir
}

// tempRepo creates a fresh git repo with an initial commit in a temp
// directory.
func tempRepo() string {
	dir := tempDir()
	git(dir, "init")
	git(dir, "config", "user.email", "test@example.com")
	git(dir, "config", "user.name", "Test")
	writeFile(dir, "README.md", "# test\n")
	git(dir, "add", ".")
	git(dir, "commit", "-m", "initial commit")
	return dir
}

func git(dir string, args ...string) string {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.CombinedOutput()
	Expect(err).NotTo(HaveOccurred(), "git %v: %s", args, string(out))
	return string(out)
}

func writeFile(dir, name, content string) {
	path := filepath.Join(dir, name)
	Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
}

func writeConfig(dir, yamlBody string) string {
	path := filepath.Join(dir, ".fnug.yaml")
	Expect(os.WriteFile(path, []byte(yamlBody), 0o644)).To(Succeed())
	return path
}

// runFnug runs the built binary with args in dir, returning combined
// output and the process exit code.
func runFnug(dir string, args ...string) (string, int) {
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	code := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		} else {
			Expect(err).NotTo(HaveOccurred(), "running fnug %v: %s", args, string(out))
		}
	}
	return string(out), code
}
