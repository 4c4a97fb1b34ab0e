package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/tpp/cli"
	"github.com/ardnew/tpp/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		log.Error(
			"run failed",
			slog.Any("error", err),
		) // LogValue expands *lang.Error into its attributes
		os.Exit(1)
	}
}
