package main

import (
	"context"
	"log"

	"termnotes/cli"
)

func main() {
	if err := cli.New().ExecuteContext(context.Background()); err != nil {
		log.Fatalf("%+v", err)
	}
}
