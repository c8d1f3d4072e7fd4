package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/malusev998/currency-converter/cli/cmd"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error while loading .env file: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cmd.Execute(&cmd.Config{
		Ctx:     ctx,
		Viper:   viper.New(),
		Build:   build,
		Version: "v1.0.0",
	})

	stop()

	if err != nil {
		os.Exit(1)
	}
}
