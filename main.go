package main

import "communestats/cmd"

func main() {
	cmd.Execute()
}
