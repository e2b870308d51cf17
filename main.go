package main

import "github.com/dotcommander/screenscore/cmd"

func main() {
	cmd.Execute()
}
