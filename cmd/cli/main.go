package main

import "locallibrary/cmd/cli/command"

func main() {
	command.Execute()
}
