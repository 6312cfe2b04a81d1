// Command sectionctl serves, renders, lints and edits section-based site
// documents.
package main

import (
	"os"
)

func main() {
	root := newRootCmd()
	root.SetOut(os.Stdout)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
