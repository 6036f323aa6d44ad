package main

import "github.com/Togather-Foundation/glee/cmd/glee/cmd"

func main() {
	cmd.Execute()
}
