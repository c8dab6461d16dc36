// The main package for the newsharvest executable.
package main

import (
	"newsharvest/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
