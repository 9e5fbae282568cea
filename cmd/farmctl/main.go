package main

import "github.com/farmcare/farmcare/cmd/farmctl/cmd"

func main() {
	cmd.Execute()
}
