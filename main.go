package main

import "github.com/nmarceau/facegate/cmd"

func main() {
	cmd.Execute()
}
