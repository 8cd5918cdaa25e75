package main

import (
	"github.com/perkhub/perkhub/cmd"
)

func main() {
	cmd.Execute()
}
