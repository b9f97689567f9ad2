package mage

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"
	"strings"

	"dagger.io/dagger"
)

const (
	GoImage           = "golang:1.21.5-alpine"
	GolangCILintImage = "golangci/golangci-lint:v1.55-alpine"
	BaseImage         = "alpine:3.19"
)

// supportedPlatforms maps the image platforms to the Go environment
// used to cross compile for them.
var supportedPlatforms = map[dagger.Platform]map[string]string{
	"linux/amd64": {
		"GOARCH": "amd64",
	},
	"linux/arm64": {
		"GOARCH": "arm64",
	},
	"linux/arm/v7": {
		"GOARCH": "arm",
		"GOARM":  "7",
	},
	"linux/ppc64le": {
		"GOARCH": "ppc64le",
	},
	"linux/s390x": {
		"GOARCH": "s390x",
	},
}

func getSupportedPlatforms() []dagger.Platform {
	platforms := make([]dagger.Platform, 0, len(supportedPlatforms))
	for platform := range supportedPlatforms {
		platforms = append(platforms, platform)
	}
	sort.Slice(platforms, func(i, j int) bool {
		return platforms[i] < platforms[j]
	})
	return platforms
}

func getCurrentPlatform() (string, error) {
	platform := "linux/" + runtime.GOARCH
	if runtime.GOARCH == "arm" {
		platform += "/v7"
	}
	if _, ok := supportedPlatforms[dagger.Platform(platform)]; !ok {
		return "", fmt.Errorf("platform %s not supported", platform)
	}
	return platform, nil
}

func getPlatformBinarySuffix(platform string) string {
	return strings.ReplaceAll(strings.TrimPrefix(platform, "linux/"), "/", "")
}

func getDaggerClient(ctx context.Context) (*dagger.Client, error) {
	return dagger.Connect(ctx, dagger.WithLogOutput(io.Discard))
}

func getSource(client *dagger.Client) *dagger.Directory {
	return client.Host().Directory(".", dagger.HostDirectoryOpts{
		Exclude: []string{
			"build",
			"integration",
			"README.md",
		},
	})
}

func goCache(client *dagger.Client) func(dc *dagger.Container) *dagger.Container {
	return func(dc *dagger.Container) *dagger.Container {
		return dc.
			WithMountedCache("/go", client.CacheVolume("go-mod-cache")).
			WithMountedCache("/root/.cache", client.CacheVolume("go-build-cache"))
	}
}

func printOutput(ctx context.Context, dc *dagger.Container) error {
	output, err := dc.Stdout(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s", output)
	return nil
}
