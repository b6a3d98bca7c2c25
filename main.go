package main

import "github.com/Mohsinsiddi/lumen/cmd"

func main() {
	cmd.Execute()
}
