package main

import "github.com/Tiliavir/tcheck/cmd"

func main() {
	cmd.Execute()
}
