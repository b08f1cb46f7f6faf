package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/C1Z4/ourhour-chatbot/internal/auth"
	"github.com/C1Z4/ourhour-chatbot/internal/history"
	"github.com/C1Z4/ourhour-chatbot/internal/server"
)

var serverAddr string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the chat server",
	Long: `Starts the HTTP chat server. Questions arrive on POST /api/chat or the
/api/chat/ws websocket, authenticated with the groupware's JWT.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := setupLogger(cfg)

		svc, err := newService(cfg, logger)
		if err != nil {
			return err
		}

		// The server still starts without a secret; chat requests get a 500
		// until one is configured.
		var verifier *auth.Verifier
		if cfg.Auth.JWTSecret != "" {
			verifier, err = auth.NewVerifier(cfg.Auth.JWTSecret)
			if err != nil {
				return fmt.Errorf("configuring JWT verifier: %w", err)
			}
		} else {
			logger.Warn("auth.jwt_secret is not set; chat requests will be rejected")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := history.Open(ctx, cfg.History)
		if err != nil {
			return fmt.Errorf("opening chat history: %w", err)
		}
		defer store.Close()

		addr := cfg.Server.Addr
		if serverAddr != "" {
			addr = serverAddr
		}
		srv := server.New(server.Config{
			Addr:           addr,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			RequestTimeout: cfg.Server.RequestTimeout,
		}, svc, verifier, store, logger)

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		logger.Info("ourhour-chatbot starting",
			"version", Version,
			"api", cfg.API.BaseURL,
			"provider", cfg.LLM.Provider,
			"model", cfg.LLM.Model,
			"classifier", cfg.Classifier.Mode,
			"history", cfg.History.Driver,
			"knowledge", cfg.Knowledge.Enabled)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serverCmd.Flags().StringVar(&serverAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serverCmd)
}
