package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "orderdesk/internal/config"
	intdb "orderdesk/internal/db"
	router "orderdesk/internal/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	addr    string
	migrate bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	for _, cmd := range []*cobra.Command{rootCmd, serveCmd} {
		cmd.Flags().StringVarP(&serveFlags.addr, "listen", "l", "", "override listen address")
		cmd.Flags().BoolVar(&serveFlags.migrate, "migrate", false, "apply pending migrations before serving")
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}
	if serveFlags.addr != "" {
		env.AppAddr = serveFlags.addr
	}
	if env.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	dialect := intdb.DialectFor(env.DBDriver)
	db, err := intconfig.ConnectDB(dialect.DriverName, env.DBDSN)
	if err != nil {
		return err
	}
	defer intconfig.CloseDB()

	if serveFlags.migrate {
		if err := migrateUp(dialect, db); err != nil {
			return err
		}
	}

	r, err := router.NewRouter(env, db)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s (driver=%s)", env.AppAddr, dialect.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	log.Println("server stopped")
	return nil
}
