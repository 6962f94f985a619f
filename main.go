package main

import "geosleuth/cmd"

var version = "dev"

func main() {
	cmd.Execute(version)
}
