package main

import "github.com/tasknest/tasknest/cmd"

func main() {
	cmd.Execute()
}
