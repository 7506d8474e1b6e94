package main

import "github.com/Tiliavir/trivial-dose-tracker/cmd"

func main() {
	cmd.Execute()
}
