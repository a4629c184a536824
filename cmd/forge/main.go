package main

import (
	"github.com/forgectl/forge/pkg/cli/cmd"
)

func main() {
	cmd.Execute()
}
