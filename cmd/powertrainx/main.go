// Command powertrainx is a command-line interface to the powertrain
// design-space explorer: it runs a batch permutation sweep over motor,
// propeller, cell, and thermal-environment combinations and reports the
// ranked survivors.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
