// Package main provides build targets for the slateplan project using Mage.
//
// Usage:
//
//	mage build    Compile the slateplan binary to bin/
//	mage test     Run all tests
//	mage lint     Run golangci-lint
//	mage install  Install slateplan to GOPATH/bin
//	mage clean    Remove build artifacts

//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/sh"
)

const (
	binaryName = "slateplan"
	binaryDir  = "bin"
	cmdDir     = "./cmd/slateplan"
)

// Build compiles the slateplan binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Lint runs golangci-lint over the whole module.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Install installs the slateplan binary to GOPATH/bin.
func Install() error {
	return sh.RunV("go", "install", cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(binaryDir)
}
