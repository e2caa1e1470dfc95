package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Name is the program name used in the transaction memo
const Name = "terra-exec"

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X terra-exec/internal/cmd.Version=1.2.3" ./cmd/terra-exec
var Version = "dev"

// ClientTag is the memo attached to every transaction
func ClientTag() string {
	return fmt.Sprintf("PFC-%s/%s", Name, Version)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of terra-exec",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", Name, Version)
		},
	}
}
