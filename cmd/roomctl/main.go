package main

import "github.com/mcoot/roomwarden/internal/cli"

func main() {
	cli.Execute()
}
