// Command framectl drives the media chunking and frame-serving core from
// the command line: producing a single chunk, generating a preview, or
// warming a task's whole chunk range into the Media Cache.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
