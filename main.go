package main

import "github.com/Accelnorm/realms-arbitration-layer/cmd"

func main() {
	cmd.Execute()
}
