package mage

import (
	"context"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

type Gomod mg.Namespace

func (gm Gomod) Tidy(ctx context.Context) {
	mg.CtxDeps(
		ctx,
		mg.F(gm.tidyDir, ""),
		mg.F(gm.tidyDir, "build/mage"),
		mg.F(gm.tidyDir, "integration"),
	)
}

func (Gomod) tidyDir(ctx context.Context, dir string) error {
	return runIn(ctx, dir, nil, "go", "mod", "tidy")
}

func runIn(ctx context.Context, dir string, env []string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr
	cmd.Stdout = os.Stdout
	cmd.Dir = dir
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	return cmd.Run()
}
