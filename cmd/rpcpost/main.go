// Command rpcpost posts a JSON payload to an RPC server over HTTP and prints
// the response body.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "rpcpost:", err)
		stop()
		os.Exit(1)
	}
}
