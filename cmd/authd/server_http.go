package main

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vkarpenko/authd/internal/config"
	"github.com/vkarpenko/authd/internal/httpapi"
	pg "github.com/vkarpenko/authd/internal/repository/postgres"
	"github.com/vkarpenko/authd/internal/services/auth"
	"github.com/vkarpenko/authd/internal/token"
)

func buildHTTPServer(cfg *config.Config, logger *zap.Logger, db *pg.DB) (*http.Server, error) {
	tokens, err := token.NewService(token.Config{
		Secret:     []byte(cfg.Auth.Secret),
		Algorithm:  cfg.Auth.Algorithm,
		AccessTTL:  cfg.Auth.AccessTTL,
		RefreshTTL: cfg.Auth.RefreshTTL,
	})
	if err != nil {
		return nil, err
	}

	users := pg.NewUserRepo(db)
	uc := auth.NewUsecase(users, tokens)
	api := httpapi.NewServer(logger, uc, users)

	handler := httpapi.NewRouter(api, httpapi.RouterOpts{
		Logger:      logger,
		CORSOrigins: cfg.CORS.Origins,
		Health:      db.Ping,
	})

	return &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}, nil
}

func serveHTTP(srv *http.Server, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("http listening", zap.String("addr", cfg.Server.HTTPAddr))
	return srv.ListenAndServe()
}
