// Command editor is the scene editor: an interactive window over a .cyb scene, plus
// headless export and inspection of scene files.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
