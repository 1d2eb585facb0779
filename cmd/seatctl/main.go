package main

import "github.com/YairEliyahu/Planning-a-wedding-sub001/internal/cli"

func main() {
	cli.Execute()
}
