package main

import "vocab-manager/cmd"

func main() {
	cmd.Execute()
}
