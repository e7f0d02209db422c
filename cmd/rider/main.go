package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cli/browser"
)

func main() {
	app := newApp(os.Stdout, browser.OpenURL)

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
