// Package e2e_test drives the built fnug binary as a subprocess against
// scratch config fixtures: build the binary once in BeforeSuite, then run
// it per test against temp directories.
package e2e_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var binaryPath string

func TestFnug(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "fnug E2E Suite")
}

var _ = BeforeSuite(func() {
	tmpDir, err := os.MkdirTemp("", "fnug-build-*")
	Expect(err).NotTo(HaveOccurred())

	binaryPath = filepath.Join(tmpDir, "fnug")

	modRoot, err := filepath.Abs(filepath.Join("..", "."))
	Expect(err).NotTo(HaveOccurred())

	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/fnug")
	cmd.Dir = modRoot
	out, err := cmd.CombinedOutput()
	Expect(err).NotTo(HaveOccurred(), "build failed: %s", string(out))
})

var _ = AfterSuite(func() {
	if binaryPath != "" {
		os.RemoveAll(filepath.Dir(binaryPath))
	}
})
