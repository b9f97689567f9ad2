package mage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

func (Test) Unit(ctx context.Context) error {
	fmt.Println("Running unit tests")

	client, err := getDaggerClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	src := getSource(client)

	unitTest := client.Container().From(GoImage)

	unitTest = unitTest.
		WithDirectory("/src", src).
		WithWorkdir("/src").
		WithEnvVariable("GOWORK", "off").
		With(goCache(client))

	unitTest = unitTest.WithExec([]string{
		"go", "test", "-v", "-count=1", "-race", "./...",
	})

	return printOutput(ctx, unitTest)
}

// Integration runs the integration suite against the workspace
// configured in SHORTCUTCTL_INTEGRATION_CONFIG_DIR.
func (Test) Integration(ctx context.Context) error {
	mg.CtxDeps(ctx, Build.Shortcutctl)

	fmt.Println("Running integration tests")

	// the suite runs the binary built for the current platform
	env := []string{
		"GOWORK=off",
		"SHORTCUTCTL_INTEGRATION_BINARY=" + filepath.Join("..", "build", "output", "shortcutctl"),
	}

	return runIn(ctx, "integration", env, "go", "test", "-v", "-count=1", "./...")
}
