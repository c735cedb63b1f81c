// Command mlmdctl is a thin CLI wrapper around package mlmd for
// inspecting and seeding a metadata store from the shell. Implements:
// spec §12 "CLI".
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}
