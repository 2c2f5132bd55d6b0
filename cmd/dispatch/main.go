package main

import (
	"github.com/dispatchbot/dispatch/internal/ui/cli"
)

func main() {
	cli.Execute()
}
