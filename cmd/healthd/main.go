// Command healthd serves aggregated health reports for the dependencies
// listed in its configuration.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}
