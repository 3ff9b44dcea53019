package main

import "github.com/kestrelmods/cfsync/internal/cli"

func main() {
	cli.Execute()
}
