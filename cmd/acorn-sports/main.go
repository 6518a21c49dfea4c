package main

import "github.com/acorn-hc/acorn-sports/internal/cli"

func main() {
	cli.Execute()
}
