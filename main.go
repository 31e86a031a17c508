package main

import (
	"os"

	"go-iocage/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
