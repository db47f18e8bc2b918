package main

import "github.com/emrgen/reader/cmd"

func main() {
	cmd.Execute()
}
