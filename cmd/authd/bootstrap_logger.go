package main

import (
	"go.uber.org/zap"

	"github.com/vkarpenko/authd/internal/config"
	"github.com/vkarpenko/authd/internal/obs"
)

func initLogger(cfg *config.Config) (*zap.Logger, error) {
	return obs.NewLogger(obs.LogConfig{
		Level:   cfg.Log.Level,
		Pretty:  cfg.Log.Pretty,
		Service: cfg.App.Name,
		Env:     cfg.App.Env,
		Version: cfg.App.Version,
	})
}
