package main

import "github.com/webtrail/webtrail-cli/cmd"

func main() {
	cmd.Execute()
}
