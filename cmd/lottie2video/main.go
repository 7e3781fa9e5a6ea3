package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"lottie2video/internal/services"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		if services.IsFatalConfig(err) {
			fmt.Fprintln(os.Stderr, "Run `lottie2video doctor` to check tools, the lottie-web script and directories.")
		}
		os.Exit(1)
	}
}
