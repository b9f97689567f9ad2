package mage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"dagger.io/dagger"
	"github.com/magefile/mage/mg"
)

const versionVariable = "go.ciq.dev/shortcuts/pkg/version.Semver"

var buildContext int

func withBuildOptions(ctx context.Context, options *buildOptions) context.Context {
	return context.WithValue(ctx, &buildContext, options)
}

func getBuildOptions(ctx context.Context) (*buildOptions, bool) {
	bo, exists := ctx.Value(&buildContext).(*buildOptions)
	return bo, exists
}

type publishOptions struct {
	registry   string
	repository string
	username   string
	password   *dagger.Secret
}

type buildOptions struct {
	client         *dagger.Client
	platforms      []dagger.Platform
	version        string
	publishOptions *publishOptions
}

type binaryConfig struct {
	configFiles map[string]string
}

var binaries = map[string]binaryConfig{
	"shortcutctl": {
		configFiles: map[string]string{
			"internal/pkg/config/default/shortcutctl.yaml": "/etc/shortcutctl/shortcutctl.yaml",
		},
	},
}

type Build mg.Namespace

// All builds all targets locally.
func (b Build) All(ctx context.Context) {
	mg.CtxDeps(
		ctx,
		b.Shortcutctl,
	)
}

func (b Build) Shortcutctl(ctx context.Context) error {
	return b.build(ctx, "shortcutctl")
}

func (b Build) build(ctx context.Context, name string) error {
	binaryConfig, ok := binaries[name]
	if !ok {
		return fmt.Errorf("unknown binary %s", name)
	}

	currentPlatform, err := getCurrentPlatform()
	if err != nil {
		return err
	}

	buildOpts, ok := getBuildOptions(ctx)

	if !ok {
		buildOpts = &buildOptions{
			platforms: []dagger.Platform{
				dagger.Platform(currentPlatform),
			},
		}
	} else if len(buildOpts.platforms) == 0 {
		buildOpts.platforms = []dagger.Platform{
			dagger.Platform(currentPlatform),
		}
	}

	version := buildOpts.version
	if version == "" {
		version = os.Getenv("SHORTCUTCTL_VERSION")
	}

	client := buildOpts.client

	if client == nil {
		client, err = getDaggerClient(ctx)
		if err != nil {
			return err
		}
		defer client.Close()
	}

	containers := make([]*dagger.Container, 0, len(buildOpts.platforms))

	for _, platform := range buildOpts.platforms {
		binary := name
		if string(platform) != currentPlatform {
			binary += "-" + getPlatformBinarySuffix(string(platform))
		}

		fmt.Printf("Building %s (%s)\n", binary, platform)

		src := getSource(client)

		golang := client.Container().From(GoImage)

		golang = golang.
			WithDirectory("/src", src).
			WithDirectory("/output", client.Directory()).
			WithWorkdir("/src").
			WithEnvVariable("CGO_ENABLED", "0").
			WithEnvVariable("GOWORK", "off").
			WithEnvVariable("GOOS", "linux").
			With(goCache(client))

		envs, ok := supportedPlatforms[platform]
		if !ok {
			return fmt.Errorf("platform %s not supported", platform)
		}

		for key, value := range envs {
			golang = golang.WithEnvVariable(key, value)
		}

		path := filepath.Join("/output", binary)
		inputCmd := filepath.Join("cmd", name)

		buildCmd := []string{"go", "build", "-mod=readonly", "-trimpath"}
		if version != "" {
			buildCmd = append(buildCmd, "-ldflags", "-X "+versionVariable+"="+version)
		}
		buildCmd = append(buildCmd, "-o", path, "./"+inputCmd)

		golang = golang.WithExec(buildCmd)

		if err := printOutput(ctx, golang); err != nil {
			return err
		}

		output := golang.File(path)

		if buildOpts.publishOptions == nil {
			_, err = output.Export(ctx, filepath.Join("build", "output", binary))
			if err != nil {
				return err
			}
		} else {
			container := client.
				Container(dagger.ContainerOpts{
					Platform: platform,
				}).
				From(BaseImage).
				WithExec([]string{"apk", "add", "--no-cache", "ca-certificates"}).
				WithFile(filepath.Join("/usr/bin", name), output).
				WithEntrypoint([]string{filepath.Join("/usr/bin", name)})

			for configSrc, configDst := range binaryConfig.configFiles {
				container = container.WithFile(configDst, golang.File(configSrc))
			}

			containers = append(
				containers,
				container,
			)
		}
	}

	if len(containers) > 0 && buildOpts.publishOptions != nil {
		imageRepository := fmt.Sprintf("%s/%s", buildOpts.publishOptions.registry, buildOpts.publishOptions.repository)
		images := client.Container()

		if buildOpts.publishOptions.username != "" || buildOpts.publishOptions.password != nil {
			images = images.WithRegistryAuth(
				buildOpts.publishOptions.registry,
				buildOpts.publishOptions.username,
				buildOpts.publishOptions.password,
			)
		}

		digest, err := images.Publish(ctx, imageRepository, dagger.ContainerPublishOpts{
			PlatformVariants: containers,
		})
		if err != nil {
			return err
		}
		fmt.Println("Image pushed", digest)
	}

	return nil
}
