package main

import "github.com/viant/sourcepick/cmd"

func main() {
	cmd.Execute()
}
