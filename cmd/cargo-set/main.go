package main

import "cargo-set/internal/cli"

func main() {
	cli.Execute()
}
