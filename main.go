// Package main is the entry point for the r3act CLI tool, which analyzes
// football match data and computes team recovery metrics after critical events.
package main

import "github.com/DanielCarreno95/R3ACT/cmd"

func main() {
	cmd.Execute()
}
