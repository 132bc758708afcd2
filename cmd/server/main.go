package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-decap-oauth/internal/config"
	"github.com/jrsteele09/go-decap-oauth/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var port int

var rootCmd = &cobra.Command{
	Use:   "decap-oauth",
	Short: "External OAuth provider for Decap CMS",
	Long: `decap-oauth lets the Decap CMS editor log in through GitHub, GitLab or
another OAuth 2.0 Git host. It is configured through environment variables:

  OAUTH_CLIENT_ID, OAUTH_SECRET and OAUTH_ORIGINS are required.
  OAUTH_PROVIDER, OAUTH_HOSTNAME, OAUTH_TOKEN_PATH, OAUTH_AUTHORIZE_PATH and
  OAUTH_SCOPES select and customise the provider.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

func init() {
	rootCmd.Flags().IntVar(&port, "port", 0, "port to listen on (defaults to $PORT or 3005)")
}

func main() {
	setupLogging(nil)
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Error running server")
		os.Exit(1)
	}
	log.Info().Msg("Server stopped")
}

func run(cmd *cobra.Command) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(c)

	listenPort := c.Port
	if cmd.Flags().Changed("port") {
		if port <= 0 || port > 65535 {
			return fmt.Errorf("--port %d is out of range", port)
		}
		listenPort = port
	}

	handler, err := server.New(c)
	if err != nil {
		return err
	}

	displayAppname(c.AppName)
	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", listenPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(srv, c) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

func listenAndServe(server *http.Server, c *config.Config) error {
	log.Info().
		Str("addr", server.Addr).
		Str("provider", c.Provider).
		Str("hostname", c.Hostname).
		Str("origins", c.Origins.String()).
		Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
