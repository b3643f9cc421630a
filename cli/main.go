package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"ytlikes/internal/cli"
	"ytlikes/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.Execute(ctx, os.Args[1:], cli.DefaultEnv())
	if err == nil {
		return
	}

	code := cli.ExitFailure
	var ee *cli.ExitError
	if errors.As(err, &ee) {
		code = ee.Code
		err = ee.Err
	}
	if err != nil {
		logger.Default().Error(err.Error())
	}
	stop()
	os.Exit(code)
}
