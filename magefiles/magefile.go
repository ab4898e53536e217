//go:build mage

// Package main contains Mage build targets for quire developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "quire"
	cmdPkg  = "./cmd/quire"
	ocrTag  = "ocr"
	fitzTag = "fitz"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	return build(binName)
}

// BuildOCR compiles the CLI with Tesseract OCR support. It needs the
// tesseract and leptonica development headers.
func BuildOCR() error {
	return build(binName+"-ocr", "-tags", ocrTag)
}

// BuildFitz compiles the CLI with MuPDF page rendering for PDF to image.
func BuildFitz() error {
	return build(binName+"-fitz", "-tags", fitzTag)
}

func build(name string, flags ...string) error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, name)
	args := append([]string{"build"}, flags...)
	args = append(args, "-ldflags", "-X main.version="+version(), "-o", out, cmdPkg)
	if err := sh.RunV("go", args...); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// version is taken from git, falling back to "dev".
func version() string {
	v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || v == "" {
		return "dev"
	}
	return v
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// TestOCR runs the unit tests with OCR support.
func TestOCR() error {
	return sh.RunV("go", "test", "-tags", ocrTag, "./...")
}

// TestFitz runs the unit tests with MuPDF page rendering.
func TestFitz() error {
	return sh.RunV("go", "test", "-tags", fitzTag, "./...")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and the tests.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}
