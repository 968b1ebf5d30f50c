package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kmatton/speech-feature-io/controller"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, `Usage: speech-feature-io <request.yaml>`)
		os.Exit(1)
	}
	yamlContent, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, `Could not read request file:`, err)
		os.Exit(1)
	}
	c := controller.NewController(context.Background(), yamlContent)
	status := c.Process()
	if status != nil {
		fmt.Fprintln(os.Stderr, status.String())
		os.Exit(1)
	}
}
