package main

import "github.com/arbaev/commit-date-changer/cmd"

func main() {
	cmd.Execute()
}
