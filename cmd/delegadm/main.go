// Package main is the entry point for the delegadm binary.
package main

import "os"

func main() {
	os.Exit(execute())
}
