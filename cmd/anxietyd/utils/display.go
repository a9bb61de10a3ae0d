// Package utils contains utility functions for the anxiety daemon.
package utils

import (
	"fmt"
)

// DisplayLogo prints the anxiety ASCII logo with version information
func DisplayLogo(version string) {
	fmt.Println()
	fmt.Println(` ░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░
 ░█▀█░█▀█░█░█░▀█▀░█▀▀░▀█▀░█░█░
 ░█▀█░█░█░▄▀▄░░█░░█▀▀░░█░░░█░░
 ░▀░▀░▀░▀░▀░▀░▀▀▀░▀▀▀░░▀░░░▀░░
 ░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░`)
	fmt.Printf("\n anxiety v%s - I/O scheduler daemon\n", version)
	fmt.Println(" Sync first, async never starves")
	fmt.Println()
}
