package main

import (
	"github.com/rbeltran/stitchops/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
