package main

import "babytracker/cmd/client/cmd"

func main() {
	cmd.Execute()
}
