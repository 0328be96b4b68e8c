// Command devtrace-demo serves routes that fail in every way devtrace can
// report, for trying the middleware from a terminal or a browser.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
