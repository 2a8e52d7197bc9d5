//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "dowel"

// Default target to run when none is specified
var Default = Build

// Build compiles the dowel binary
func Build() error {
	mg.Deps(Vet)
	return sh.RunV("go", "build", "-o", binary, "./cmd/dowel")
}

// Test runs all unit tests with the race detector
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install copies the binary to GOPATH/bin
func Install() error {
	return sh.RunV("go", "install", "./cmd/dowel")
}

// Clean removes build artifacts
func Clean() error {
	return sh.Rm(binary)
}
