package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of quire",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "quire %s\n", version)
		},
	}
}
