package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/exec"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.ciq.dev/shortcuts/integration/pkg/backoff"
	"go.ciq.dev/shortcuts/integration/pkg/shortcutconfig"
	"go.ciq.dev/shortcuts/pkg/fabric"
)

func decodeResult(out string) *fabric.Result {
	result := new(fabric.Result)
	err := json.Unmarshal([]byte(out), result)
	Expect(err).To(BeNil())
	return result
}

func exitCode(err error) int {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return 0
}

var _ = Describe("Shortcuts", func() {
	Describe("Test", Ordered, func() {
		shortcuts, err := shortcutconfig.Parse(shortcutsData)
		Expect(err).To(BeNil())

		It("Create", func() {
			for name, shortcut := range shortcuts {
				out, err := shortcutctl(
					"shortcut", "create", name,
					"--path", shortcut.Path,
					"--target-type", shortcut.TargetType,
					"--location", shortcut.Location,
					"--subpath", shortcut.Subpath,
					"--connection-id", shortcut.ConnectionID,
					"--conflict-policy", fabric.ConflictCreateOrOverwrite,
				)
				Expect(err).To(BeNil())

				result := decodeResult(out)
				Expect(result.Status).To(Equal(fabric.StatusSuccess))

				created := new(fabric.Shortcut)
				Expect(result.Decode(created)).To(BeNil())
				Expect(created.Name).To(Equal(name))
			}
		})

		It("Get", func() {
			for name, shortcut := range shortcuts {
				err := backoff.Retry(func() error {
					out, err := shortcutctl("shortcut", "get", name, "--path", shortcut.Path)
					if err != nil {
						return err
					}
					got := new(fabric.Shortcut)
					if err := decodeResult(out).Decode(got); err != nil {
						return backoff.Permanent(err)
					}
					if got.Target.AdlsGen2 == nil || got.Target.AdlsGen2.Subpath != shortcut.Subpath {
						return backoff.Permanent(fmt.Errorf("unexpected target %+v", got.Target))
					}
					return nil
				})
				Expect(err).To(BeNil())
			}
		})

		It("List", func() {
			out, err := shortcutctl("shortcut", "list")
			Expect(err).To(BeNil())

			var listed []fabric.Shortcut
			Expect(json.Unmarshal([]byte(out), &listed)).To(BeNil())

			names := make(map[string]bool)
			for _, shortcut := range listed {
				names[shortcut.Name] = true
			}
			for name := range shortcuts {
				Expect(names).To(HaveKey(name))
			}
		})

		It("Delete", func() {
			for name, shortcut := range shortcuts {
				out, err := shortcutctl("shortcut", "delete", name, "--path", shortcut.Path)
				Expect(err).To(BeNil())
				Expect(decodeResult(out).StatusCode).To(Equal(http.StatusOK))

				// delete only returns once the shortcut is gone
				out, err = shortcutctl("shortcut", "get", name, "--path", shortcut.Path)
				Expect(exitCode(err)).To(Equal(1))
				Expect(decodeResult(out).StatusCode).To(Equal(http.StatusNotFound))
			}
		})
	})
})
