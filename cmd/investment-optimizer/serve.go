package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"github.com/iwvelando/investment-optimizer/internal/config"
	"github.com/iwvelando/investment-optimizer/internal/server"
	"github.com/iwvelando/investment-optimizer/pkg/constants"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type serveCmd struct {
	serverConfig  string
	address       string
	maxUploadSize string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the solve API over HTTP" }
func (*serveCmd) Usage() string {
	return `investment-optimizer [-config <file>] serve [-server-config server-config.yaml] [-address :8080] [-max-upload-size 4M]

  Starts an HTTP server exposing POST /api/solve and GET /api/version. The
  optimizer configuration file seeds every request.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.serverConfig, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	f.StringVar(&c.address, "address", "", "listen address override")
	f.StringVar(&c.maxUploadSize, "max-upload-size", "", "maximum upload size override, e.g. 512K or 4M")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	serverConf, err := server.LoadConfig(c.serverConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.address != "" {
		serverConf.Address = c.address
	}
	if c.maxUploadSize != "" {
		size, err := server.ParseSize(c.maxUploadSize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		serverConf.SetUploadSizeBytes(size)
	}

	solverPath := serverConf.Solver
	if isFlagSet(flag.CommandLine, "config") {
		solverPath = *configLocation
	}
	base, err := config.LoadConfigurationOrDefaults(solverPath)
	if err == nil {
		err = base.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration at %s: %v\n", solverPath, err)
		return subcommands.ExitUsageError
	}

	logger, err := initializeLogger(serverConf.Logging, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer func() {
		_ = logger.Sync()
	}()

	srv := &http.Server{
		Addr:              serverConf.Address,
		Handler:           server.NewHandler(logger, serverConf.UploadSizeBytes(), version, base),
		ReadHeaderTimeout: serverConf.ReadHeaderTimeout(),
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("op", "main.serve"),
			zap.String("address", serverConf.Address),
			zap.Int64("maxUploadSize", serverConf.UploadSizeBytes()),
			zap.String("solverConfig", solverPath),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed",
				zap.String("op", "main.serve"),
				zap.Error(err),
			)
			return subcommands.ExitFailure
		}
	case <-ctx.Done():
		logger.Info("shutting down",
			zap.String("op", "main.serve"),
		)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed",
				zap.String("op", "main.serve"),
				zap.Error(err),
			)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
