package integration_test

import (
	"bytes"
	_ "embed"
	"errors"
	"os"
	"os/exec"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.ciq.dev/shortcuts/integration/pkg/backoff"
)

const (
	// ConfigDirEnv points to the shortcutctl configuration of the
	// workspace used by the tests, the suite is skipped without it.
	ConfigDirEnv = "SHORTCUTCTL_INTEGRATION_CONFIG_DIR"
	BinaryEnv    = "SHORTCUTCTL_INTEGRATION_BINARY"

	defaultBinary = "/app/shortcutctl"
)

//go:embed testdata/shortcuts.yaml
var shortcutsData []byte

var (
	configDir string
	binary    string
)

func TestShortcutsIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Shortcuts Integration Test Suite")
}

var _ = BeforeSuite(func() {
	configDir = os.Getenv(ConfigDirEnv)
	if configDir == "" {
		Skip(ConfigDirEnv + " is not set")
	}

	binary = os.Getenv(BinaryEnv)
	if binary == "" {
		binary = defaultBinary
	}

	_, err := exec.LookPath(binary)
	Expect(err).To(BeNil())

	err = checkToken()
	Expect(err).To(BeNil())
})

// shortcutctl runs the binary against the integration workspace and
// returns its standard output.
func shortcutctl(args ...string) (string, error) {
	cmd := exec.Command(binary, append([]string{"--config-dir", configDir}, args...)...)

	stdout := new(bytes.Buffer)
	cmd.Stdout = stdout
	cmd.Stderr = GinkgoWriter

	err := cmd.Run()

	return stdout.String(), err
}

func checkToken() error {
	return backoff.Retry(func() error {
		out, err := shortcutctl("auth", "token")
		if err != nil {
			return err
		} else if out != "Access Token Acquired\n" {
			return errors.New("unexpected output: " + out)
		}
		return nil
	})
}
