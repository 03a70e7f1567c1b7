package main

import "toolpanel/internal/cli"

func main() {
	cli.Execute()
}
