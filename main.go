package main

import "github.com/NicholasPiano/arktic/cmd"

func main() {
	cmd.Execute()
}
