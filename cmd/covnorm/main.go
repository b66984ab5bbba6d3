package main

import "covnorm/internal/cli"

func main() {
	cli.Execute()
}
