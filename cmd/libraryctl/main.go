package main

import "github.com/xiebiao/library/cmd/libraryctl/command"

func main() {
	command.Execute()
}
