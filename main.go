package main

import "github.com/agentic-research/fieldmap/cmd"

func main() {
	cmd.Execute()
}
