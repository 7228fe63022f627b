package main

import "github.com/liyacrafter/viewcheck/cmd"

func main() {
	cmd.Execute()
}
