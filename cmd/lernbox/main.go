// Package main implements the lernbox CLI, which studies Leitner-style
// flashcard boxes stored as local CSV files, no server required.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lernbox: %v\n", err)
		os.Exit(1)
	}
}
