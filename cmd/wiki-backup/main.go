/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import "os"

func main() {
	// Execute has already logged the error, to stderr and the log file.
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
