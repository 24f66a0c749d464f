package main

import "github.com/jsphweid/notetree/cmd"

func main() {
	cmd.Execute()
}
