package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/desertthunder/moodmix/internal/repositories"
	"github.com/desertthunder/moodmix/internal/server"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/desertthunder/moodmix/internal/web"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 5 * time.Second

// ServeAPI runs the storage resource backed by SQLite until ctx is cancelled.
func (r *Runner) ServeAPI(ctx context.Context, cmd *cli.Command) error {
	dbConfig := r.config.Database
	if path := cmd.String("db"); path != "" {
		dbConfig.Path = path
	}

	db, err := shared.OpenDatabase(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	addr := listenAddr(r.config.Server.Host, r.config.Server.Port, cmd)
	srv := server.New(addr, repositories.NewSongRepository(db), r.logger)

	r.logger.Info("starting storage API", "addr", addr, "database", dbConfig.Path)
	return r.serve(ctx, srv, nil)
}

// ServeWeb runs the browser form until ctx is cancelled.
func (r *Runner) ServeWeb(ctx context.Context, cmd *cli.Command) error {
	h, err := web.NewHandler(r.engine, r.storage, r.config.CredentialStatuses(), r.logger)
	if err != nil {
		return err
	}

	addr := listenAddr(r.config.Web.Host, r.config.Web.Port, cmd)
	srv := web.NewServer(addr, h, r.logger)

	var onReady func(string)
	if cmd.Bool("open") {
		onReady = func(addr string) {
			url := "http://" + addr
			if err := shared.OpenBrowser(url); err != nil {
				r.logger.Warnf("failed to open browser automatically %v", err)
				r.writePlain("Please open this URL in your browser:\n%s\n", url)
			}
		}
	}

	r.logger.Info("starting web form", "addr", addr, "storage", r.config.Web.StorageURL)
	return r.serve(ctx, srv, onReady)
}

// serve listens on srv.Addr and blocks until ctx is done or the server fails.
//
// onReady, when set, runs once the listener is bound.
func (r *Runner) serve(ctx context.Context, srv *http.Server, onReady func(addr string)) error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}

	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	if onReady != nil {
		onReady(ln.Addr().String())
	}

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	r.logger.Info("shutting down", "addr", srv.Addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	return nil
}

// listenAddr applies the --host and --port flags over the configured address.
func listenAddr(host string, port int, cmd *cli.Command) string {
	if h := cmd.String("host"); h != "" {
		host = h
	}
	if p := cmd.Int("port"); p > 0 {
		port = p
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
