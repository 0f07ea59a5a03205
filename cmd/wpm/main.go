package main

import "wpm/internal/cli"

func main() {
	cli.Execute()
}
