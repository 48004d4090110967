package main

import (
	"github.com/NVIDIA/inventory-agent/pkg/cli"
)

func main() {
	cli.Execute()
}
