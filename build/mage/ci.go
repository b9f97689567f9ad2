package mage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
)

type CI mg.Namespace

// Image builds the binary named after the repository for all supported
// platforms and publishes the multi-platform image, the tag is used as
// the binary version.
func (ci CI) Image(ctx context.Context, repository, username, password string) error {
	client, err := getDaggerClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	repoSplitted := strings.SplitN(repository, "/", 2)
	if len(repoSplitted) != 2 {
		return fmt.Errorf("bad repository format")
	}

	target := filepath.Base(repository)
	idx := strings.LastIndexByte(target, ':')
	if idx < 0 {
		return fmt.Errorf("missing tag in repository URL")
	}

	version := target[idx+1:]
	target = target[:idx]

	passwordSecret := client.SetSecret("password", password)

	buildCtx := withBuildOptions(ctx, &buildOptions{
		client:    client,
		platforms: getSupportedPlatforms(),
		version:   version,
		publishOptions: &publishOptions{
			registry:   repoSplitted[0],
			repository: repoSplitted[1],
			username:   username,
			password:   passwordSecret,
		},
	})

	return Build{}.build(buildCtx, target)
}
