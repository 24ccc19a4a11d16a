package main

import (
	"vessfm/cmd"
)

func main() {
	cmd.Execute()
}
