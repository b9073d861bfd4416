package main

import (
	"chordfm/cmd"
)

func main() {
	cmd.Execute()
}
