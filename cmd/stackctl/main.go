package main

import (
	"os"

	"promstack/internal/stackctl"
)

func main() {
	os.Exit(stackctl.CobraMain())
}
