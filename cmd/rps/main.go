package main

import "github.com/duelware/rps-arena/internal/cli"

func main() {
	cli.Execute()
}
