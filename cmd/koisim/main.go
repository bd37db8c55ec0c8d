package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/five82/koi/internal/sim"
	_ "github.com/five82/koi/internal/sim/docs"
)

const defaultAddr = ":8080"

// @title koisim feeder simulator
// @version 1.0
// @description In-memory fish feeder implementing the device HTTP contract.
// @BasePath /
func main() {
	os.Exit(run())
}

func run() int {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("koisim: load .env: %v", err)
	}

	ack, err := sim.ParseAckShape(os.Getenv("KOISIM_WIFI_ACK"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "koisim: %v\n", err)
		return 2
	}
	addr := strings.TrimSpace(os.Getenv("KOISIM_ADDR"))
	if addr == "" {
		addr = defaultAddr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dev := sim.NewDevice(sim.Options{
		Name:    os.Getenv("KOISIM_DEVICE_NAME"),
		WiFiAck: ack,
	})
	go dev.Run(ctx, sim.DefaultTickInterval)

	r := gin.Default()
	sim.RegisterRoutes(r, dev)

	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("koisim: device %s listening on %s (wifi ack %s)", dev.ID(), addr, ack)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "koisim: %v\n", err)
			return 1
		}
	case <-ctx.Done():
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "koisim: shutdown: %v\n", err)
			return 1
		}
	}
	return 0
}
