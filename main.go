package main

import (
	"log"

	"github.com/harrisonrobin/todo/pkg/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
