package main

import "github.com/diogo/relgpt/internal/commands"

func main() {
	commands.Execute()
}
