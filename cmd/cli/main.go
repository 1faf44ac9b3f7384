package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophnotes/internal/client/cli"
	"github.com/dmitrijs2005/gophnotes/internal/client/config"
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := cli.NewRootCmd(cfg).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
