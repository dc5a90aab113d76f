package main

import "github.com/Mohsinsiddi/txforge/cmd"

func main() {
	cmd.Execute()
}
