package main

import "github.com/aalvaropc/suitemap/internal/cli"

func main() {
	cli.Execute()
}
