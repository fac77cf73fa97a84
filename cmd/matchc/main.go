package main

import "github.com/matchc-lang/matchc/cmd/matchc/commands"

func main() {
	commands.Execute()
}
