package integration_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Sync", func() {
	It("Dry run", func() {
		out, err := shortcutctl("sync", "--dry-run")
		Expect(err).To(BeNil())

		for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
			if line == "" {
				continue
			}
			Expect(line).To(HavePrefix("Planned shortcut "))
		}
	})
})
