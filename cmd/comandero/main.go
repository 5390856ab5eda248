package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/comandero/comandero/config"
	"github.com/comandero/comandero/internal/app"
	"github.com/comandero/comandero/internal/restapi"
	"github.com/comandero/comandero/internal/webserver"
)

var (
	confFile = flag.String("c", "comandero.yml", "configuration file")
	initDB   = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	showVer  = flag.Bool("v", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println("comandero", version)
		return
	}

	cfg := config.LoadConfig(*confFile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initDB {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	webserver.Init(application)
	restapi.InitRouter()

	errCh := make(chan error, 1)
	go func() {
		if err := webserver.Instance().Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		zap.S().Errorf("web server error: %v", err)
		os.Exit(1)
	case sig := <-sigCh:
		zap.S().Infof("received signal %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := webserver.Instance().Shutdown(ctx); err != nil {
		zap.S().Errorf("shutdown error: %v", err)
	}
}
