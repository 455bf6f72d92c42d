// cmd/polyfier-monitor/main.go
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "polyfier-monitor: %v\n", err)
		os.Exit(1)
	}
}
