package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pvzzle/chainlens/internal/catalog"
	"github.com/pvzzle/chainlens/internal/httpapi"
	"github.com/pvzzle/chainlens/internal/logger"
	"github.com/pvzzle/chainlens/internal/rpc"
	"github.com/pvzzle/chainlens/internal/skills"
	"github.com/pvzzle/chainlens/internal/tokens"

	"github.com/sirupsen/logrus"
)

func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	rpcCl, err := rpc.Dial(ctx, cfg.RPC(), log)
	if err != nil {
		return err
	}
	defer rpcCl.Close()

	svc, err := skills.NewService(rpcCl, tokens.Base(), cfg.Network)
	if err != nil {
		return fmt.Errorf("skills: %w", err)
	}

	api := httpapi.NewServer(svc, catalog.Default(cfg.Network), cfg.HTTP(), log)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		// handlers are bounded by REQUEST_TIMEOUT, leave room to write the answer
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.WithFields(logrus.Fields{
		"addr":            srv.Addr,
		"network":         cfg.Network,
		"rpc":             cfg.BaseRPCURL,
		"pay_to":          cfg.PayTo,
		"payment_network": cfg.PaymentNetwork,
	}).Info("chainlens gateway started")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return ctx.Err()
}
