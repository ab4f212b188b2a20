package main

import (
	"github.com/stylora/marketplace/cmd"
)

func main() {
	cmd.Start()
}
