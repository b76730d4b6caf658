package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Apurer/rocketshoes-cart/internal/app/inventorystub"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := inventorystub.Run(ctx); err != nil {
		log.Fatalf("inventory stub exited: %v", err)
	}
}
