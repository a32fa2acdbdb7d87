package main

import (
	"context"
	"fmt"
	"os"

	"github.com/terraincognita07/cyclemark/internal/cli"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "cyclemark: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cmd := cli.New()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
