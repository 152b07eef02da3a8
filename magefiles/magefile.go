package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "joinpath"
)

func Lint() error {
	return sh.RunV("golangci-lint", "run")
}

// Generate regenerates mocks.
func Generate() error {
	return sh.RunV("go", "generate", "./...")
}

func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil { //nolint:gomnd // dir mode
		return err
	}
	return sh.RunV("go", "build", "-o", filepath.Join(binDir, binName), ".")
}

func Update() error {
	if err := sh.RunV("go", "get", "-u", "-v"); err != nil {
		return err
	}
	return sh.RunV("go", "mod", "tidy", "-v")
}

type Test mg.Namespace

func (Test) All() error {
	return sh.RunV("go", "test", "-v", "./...")
}

func (Test) Cover() error {
	profile := filepath.Join(binDir, "cover.out")
	if err := os.MkdirAll(binDir, 0o755); err != nil { //nolint:gomnd // dir mode
		return err
	}
	if err := sh.RunV("go", "test", "-coverprofile", profile, "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func", profile)
}

// Integration runs the PostgreSQL catalog tests against JOINPATH_PG_DSN.
func (Test) Integration() error {
	if os.Getenv("JOINPATH_PG_DSN") == "" {
		return mg.Fatal(1, "JOINPATH_PG_DSN is not set")
	}
	return sh.RunV("go", "test", "-v", "-run", "Integration", "./parse/...")
}
