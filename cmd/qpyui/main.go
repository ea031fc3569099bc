// Command qpyui renders question UI documents and runs attempts against them
// from the command line.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
