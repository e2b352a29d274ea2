package main

import "dineout-frontend/internal/cli"

func main() {
	cli.Execute()
}
