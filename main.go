package main

import "github.com/averync2005/lusi-science-module/cmd"

func main() {
	cmd.Execute()
}
