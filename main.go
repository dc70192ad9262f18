package main

import "github.com/feraszen/keytop-fresh/cli"

func main() {
	cli.Execute()
}
