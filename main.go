package main

import "agents-manager/cmd"

func main() {
	cmd.Execute()
}
