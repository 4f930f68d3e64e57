//go:build mage

// Package main provides build targets for promptkeeper using Mage.
//
// Usage:
//
//	mage build      Compile promptkeeper to bin/
//	mage test:all   Run every test
//	mage test:race  Run every test with the race detector
//	mage test:cover Write coverage.out and print per-function coverage
//	mage lint       Run golangci-lint
//	mage clean      Remove build artifacts
//	mage install    Install promptkeeper to GOPATH/bin
//	mage stats      Print Go line counts as JSON
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "promptkeeper"
	binaryDir  = "bin"
	cmdDir     = "./cmd/promptkeeper"
	versionVar = "github.com/mesh-intelligence/promptkeeper/internal/cli.Version"
)

// ldflags stamps the binary with the current git describe output, when there
// is one.
func ldflags() string {
	out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || strings.TrimSpace(out) == "" {
		return ""
	}
	return "-X " + versionVar + "=" + strings.TrimSpace(out)
}

// Build compiles the promptkeeper binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v", "-o", filepath.Join(binaryDir, binaryName)}
	if flags := ldflags(); flags != "" {
		args = append(args, "-ldflags", flags)
	}
	return sh.RunV(binGo, append(args, cmdDir)...)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	_ = os.Remove(coverProfile)
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
