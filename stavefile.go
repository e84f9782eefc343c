//go:build stave

package main

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const binary = "bin/fllint"

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b": Build,
	"t": Test.Default,
	"l": Lint.Default,
	"c": Check,
}

// Namespace types group related targets.
type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// Build compiles the fllint binary, skipping when sources are unchanged.
func Build() error {
	stale, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !stale {
		fmt.Printf("%s is up to date\n", binary)
		return nil
	}
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/fllint")
}

// Check runs format check, linters, and tests.
func Check() {
	st.SerialDeps(Lint.FmtCheck, Lint.Default, Test.Default)
}

// Install installs fllint to $GOBIN or $GOPATH/bin.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/fllint")
}

// Clean removes build and coverage artifacts.
func Clean() error {
	for _, artifact := range []string{"bin", "coverage.out", "coverage.html"} {
		if err := sh.Rm(artifact); err != nil {
			return err
		}
	}
	return nil
}

// Coverage renders the coverage profile produced by the test target.
func Coverage() error {
	st.Deps(Test.Default)
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Default runs the test suite through gotestsum with race detection and a
// coverage profile.
func (Test) Default() error {
	return gotestsum("pkgname-and-test-fails",
		"-race", "-parallel", procs(), "./...",
		"-coverprofile=coverage.out", "-covermode=atomic")
}

// Verbose runs the suite with per-test output.
func (Test) Verbose() error {
	return gotestsum("standard-verbose",
		"-v", "-race", "-parallel", procs(), "./...")
}

// Fuzz gives each fuzz target a short budget; longer corpus work happens in
// dedicated runs.
func (Test) Fuzz() error {
	for _, pkg := range []string{"./pkg/fix", "./pkg/fsutil"} {
		if err := sh.RunV("go", "test", "-fuzz=.", "-fuzztime=30s", "-run=^$", pkg); err != nil {
			return err
		}
	}
	return nil
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// CI runs golangci-lint without touching the tree.
func (Lint) CI() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck fails when any file is not gofmt-clean.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("gofmt needed:\n%s", out)
	}
	return nil
}

// Vet runs go vet.
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Gate is the full pre-merge sequence.
func (CI) Gate() error {
	st.SerialDeps(
		Lint.FmtCheck,
		Lint.Vet,
		Lint.CI,
		Build,
		Test.Default,
		CI.ModTidy,
		CI.Cross,
	)
	fmt.Println("CI gate passed")
	return nil
}

// ModTidy fails when go mod tidy would change go.mod or go.sum.
func (CI) ModTidy() error {
	before, err := modFiles()
	if err != nil {
		return err
	}
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	after, err := modFiles()
	if err != nil {
		return err
	}
	if before != after {
		return errors.New("go.mod/go.sum not tidy, commit the tidied files")
	}
	return nil
}

// Cross compiles for the release platforms without keeping the binaries.
func (CI) Cross() error {
	for _, platform := range []string{
		"linux/amd64", "linux/arm64",
		"darwin/amd64", "darwin/arm64",
		"windows/amd64",
	} {
		goos, goarch, _ := strings.Cut(platform, "/")
		fmt.Printf("building %s\n", platform)
		env := map[string]string{"GOOS": goos, "GOARCH": goarch, "CGO_ENABLED": "0"}
		if err := sh.RunWith(env, "go", "build", "-o", os.DevNull, "./cmd/fllint"); err != nil {
			return fmt.Errorf("%s: %w", platform, err)
		}
	}
	return nil
}

// Default runs the benchmarks.
func (Bench) Default() error {
	return gotestsum("pkgname-and-test-fails", "-bench=.", "-benchmem", "-run=^$", "./...")
}

func gotestsum(format string, testArgs ...string) error {
	args := append([]string{"tool", "gotestsum", "-f", format, "--"}, testArgs...)
	return sh.RunV("go", args...)
}

func procs() string {
	return cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
}

func modFiles() (string, error) {
	var parts []string
	for _, name := range []string{"go.mod", "go.sum"} {
		data, err := os.ReadFile(name)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
		parts = append(parts, string(data))
	}
	return strings.Join(parts, "\x00"), nil
}

func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	built := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s",
		version, commit, built)
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}
