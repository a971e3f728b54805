package main

import (
	"os"

	cassettecmder "github.com/papercomputeco/cassette/cmd/cassette"
)

func main() {
	cmd := cassettecmder.NewCassetteCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
