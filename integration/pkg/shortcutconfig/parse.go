package shortcutconfig

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Shortcut describes a shortcut created by the integration tests.
type Shortcut struct {
	Path         string `yaml:"path"`
	TargetType   string `yaml:"target-type"`
	Location     string `yaml:"location"`
	Subpath      string `yaml:"subpath"`
	ConnectionID string `yaml:"connection-id"`
}

type Shortcuts map[string]Shortcut

// Parse decodes the shortcuts, environment variables are expanded
// beforehand so locations and connections can be provided by CI.
func Parse(data []byte) (Shortcuts, error) {
	src := make(Shortcuts)
	err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), src)
	return src, err
}
