// Command diagnose-launcher starts the Python encoding diagnostic from a
// double-clicked console window. It takes no arguments, reads no config
// and writes no files; on failure it pauses so the window stays open
// long enough to read the error.
package main

import (
	"github.com/TheCing/uma-parent-viewer/internal/launcher"
)

func main() {
	// A failed run already showed its hints and waited for the user;
	// the window closes normally either way.
	_ = launcher.New().Run()
}
