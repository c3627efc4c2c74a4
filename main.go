package main

import "github.com/orbitalquark/textadept-lua-repl/cmd"

func main() {
	cmd.Execute()
}
