package main

import "github.com/intothevoid/drishti/cmd/app/commands"

func main() {
	commands.Execute()
}
