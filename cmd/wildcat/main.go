// cmd/wildcat/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rossb34/wildcat-ws/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
