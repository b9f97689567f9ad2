package mage

import (
	"context"
	"fmt"

	"github.com/magefile/mage/mg"
)

type Lint mg.Namespace

func (Lint) All(ctx context.Context) {
	mg.CtxDeps(
		ctx,
		Lint.Go,
	)
}

func (Lint) Go(ctx context.Context) error {
	fmt.Println("Running Go linter")

	client, err := getDaggerClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	src := getSource(client)

	golangciLint := client.Container().From(GolangCILintImage)

	golangciLint = golangciLint.
		WithMountedDirectory("/src", src).
		WithWorkdir("/src").
		WithEnvVariable("GOWORK", "off").
		With(goCache(client))

	golangciLint = golangciLint.WithExec([]string{
		"golangci-lint", "-v", "run", "--modules-download-mode", "readonly", "--timeout", "5m",
	})

	return printOutput(ctx, golangciLint)
}
