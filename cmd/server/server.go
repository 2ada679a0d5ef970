// Package main is the entry point of the work-planner application.
// It sets up and starts the server by calling initialization functions from the internal package.
package main

import (
	"work-planner/internal"
)

func main() {
	internal.Init()
}
