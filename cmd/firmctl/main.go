// Command firmctl inspects the site's server-side decisions from a shell:
// the resolved scheduling config, video embeds and contact submissions.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// errCheckFailed marks a command that ran but reported a failed result
var errCheckFailed = errors.New("check failed")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "firmctl",
		Short:         "Inspect firm site configuration and inputs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newSchedulingCmd(), newVideoCmd(), newContactCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
