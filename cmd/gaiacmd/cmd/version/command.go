// Package version implements the version command.
package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/gaiacmd/cmd/gaiacmd/context"
)

// NewCommand creates the version command using app context.
func NewCommand(appCtx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			w := appCtx.Stdout()
			_, err := fmt.Fprintf(w, "gaiacmd version %s\ncommit: %s\nbuilt: %s\nbuilt by: %s\ngo version: %s\nplatform: %s/%s\n",
				appCtx.Version(),
				appCtx.Commit(),
				appCtx.Date(),
				appCtx.BuiltBy(),
				runtime.Version(),
				runtime.GOOS, runtime.GOARCH,
			)
			return err
		},
	}
}
