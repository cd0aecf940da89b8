package main

import "github.com/droidmod/gatepatch/cmd"

func main() {
	cmd.Execute()
}
