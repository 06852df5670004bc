// Package main is the entry point for the RawFinder CLI.
package main

import "github.com/AlexandreBurel/RawFinder/cmd"

func main() {
	cmd.Execute()
}
