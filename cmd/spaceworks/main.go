package main

import (
	"spaceworks/cmd/spaceworks/cmd"
)

func main() {
	cmd.Execute()
}
