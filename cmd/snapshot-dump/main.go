package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/Apurer/rocketshoes-cart/internal/app/api"
	"github.com/Apurer/rocketshoes-cart/internal/app/snapshotdump"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	snapshots, cleanup, err := snapshotdump.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("cannot open snapshot store: %v", err)
	}
	defer cleanup()

	if _, err := snapshotdump.Dump(ctx, snapshots, cfg.SnapshotBackend, cfg.SnapshotKey, os.Stdout); err != nil {
		log.Fatalf("failed to dump cart snapshot: %v", err)
	}
}
