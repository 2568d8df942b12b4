package main

import "github.com/curvefoundry/curved/internal/cli"

func main() {
	cli.Execute()
}
