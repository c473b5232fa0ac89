package main

import "github.com/paunplugged/legis-tracker/internal/cli"

func main() {
	cli.Execute()
}
