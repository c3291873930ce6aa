package main

import "poe2scout/pricer/internal/cli"

func main() {
	cli.Execute()
}
