package main

import "notealog/internal/cli"

func main() {
	cli.Execute()
}
