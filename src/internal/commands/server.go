package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/maksimkurb/valvula-mgr/src/internal/api"
	"github.com/maksimkurb/valvula-mgr/src/internal/config"
	"github.com/maksimkurb/valvula-mgr/src/internal/log"
)

const shutdownTimeout = 30 * time.Second

// ServerCommand runs the HTTP API.
type ServerCommand struct {
	fs  *pflag.FlagSet
	ctx *AppContext
	cfg *config.Config

	bindAddr string
}

func CreateServerCommand() *ServerCommand {
	c := &ServerCommand{fs: newFlagSet("server")}
	c.fs.StringVarP(&c.bindAddr, "bind", "b", "", "Address to bind the HTTP server (default from settings: api.listen_addr)")
	return c
}

func (c *ServerCommand) Name() string {
	return c.fs.Name()
}

func (c *ServerCommand) Description() string {
	return "Run the HTTP API for listeners, Postfix sections and daemon health"
}

func (c *ServerCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	if err := expectArgs(c.fs, "", 0); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx)
	if err != nil {
		return err
	}
	c.cfg = cfg

	if c.bindAddr == "" {
		c.bindAddr = cfg.API.ListenAddr
	}
	if _, _, err := net.SplitHostPort(c.bindAddr); err != nil {
		return fmt.Errorf("invalid bind address %q: %v", c.bindAddr, err)
	}

	return nil
}

func (c *ServerCommand) Run() error {
	log.Infof("Starting valvula-mgr API server on %s", c.bindAddr)
	log.Infof("valvula.conf: %s", c.cfg.GetAbsValvulaConfFile())
	log.Infof("main.cf: %s", c.cfg.GetAbsMainCf())
	log.Infof("Requests from public IPs will be rejected with 403 Forbidden")

	router := api.NewRouter(c.cfg, c.ctx.Deps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRestartableRunner(RunnerConfig{
		Name:        "api-server",
		MaxRestarts: 5,
		StopTimeout: shutdownTimeout + time.Second,
	}, func(ctx context.Context) error {
		return serveHTTP(ctx, c.bindAddr, router)
	})

	if err := runner.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		log.Infof("Received signal, shutting down server...")
		if err := runner.Stop(); err != nil {
			return err
		}
		log.Infof("Server stopped gracefully")
		return nil
	case <-runner.Done():
		if ctx.Err() != nil {
			log.Infof("Server stopped gracefully")
			return nil
		}
		if err := runner.LastError(); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}

// serveHTTP runs one HTTP server until ctx is cancelled.
func serveHTTP(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Infof("API endpoints available at http://%s/api/v1", addr)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Error during server shutdown: %v", err)
			if closeErr := server.Close(); closeErr != nil {
				return fmt.Errorf("failed to close server: %w", closeErr)
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return ctx.Err()
	}
}
