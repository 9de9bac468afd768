package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/STTM-NSU/currency-transformer/internal/client"
	"github.com/STTM-NSU/currency-transformer/internal/logger"
	"github.com/shopspring/decimal"
)

func main() {
	var (
		addr    = flag.String("addr", "http://localhost:8080", "transformer base url")
		money   = flag.String("money", "", "amount to convert")
		from    = flag.String("from", "", "source currency code")
		to      = flag.String("to", "", "target currency code")
		timeout = flag.Duration("timeout", 15*time.Second, "request timeout")
		debug   = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	level := logger.Warn
	if *debug {
		level = logger.Debug
	}
	zapLogger, loggerSync, err := logger.NewZapLogger(level)
	if err != nil {
		log.Fatalf("%s: can't init logger", err)
	}
	defer loggerSync()

	if err := run(zapLogger, *addr, *money, *from, *to, *timeout); err != nil {
		zapLogger.Errorf("%s: can't transform", err)
		loggerSync()
		os.Exit(1)
	}
}

func run(l logger.Logger, addr, money, from, to string, timeout time.Duration) error {
	amount, err := decimal.NewFromString(money)
	if err != nil {
		return fmt.Errorf("%w: invalid -money", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c := client.New(addr, timeout, l)
	defer c.Close()

	converted, err := c.Transform(ctx, amount, from, to)
	if err != nil {
		return err
	}
	fmt.Println(converted.String())
	return nil
}
