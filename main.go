package main

import "github.com/papapumpkin/depfilter/cmd"

func main() {
	cmd.Execute()
}
