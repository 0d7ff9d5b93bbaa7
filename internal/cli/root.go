package cli

import (
	"time"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the habitctl command tree; now is injected for tests.
func NewRootCmd(now func() time.Time) *cobra.Command {
	root := &cobra.Command{
		Use:           "habitctl",
		Short:         "Operator tooling for the superoutine habit service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newStatsCmd(now))
	root.AddCommand(newLevelCmd())
	root.AddCommand(newTokenCmd())
	root.AddCommand(newMigrateCmd())
	return root
}

func Execute() error {
	return NewRootCmd(time.Now).Execute()
}
