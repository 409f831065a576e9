package main

import (
	"log/slog"
	"path/filepath"

	"brancoder/internal/config"
	"brancoder/internal/encoding"
	"brancoder/internal/logging"
)

// persistRenderSettings writes the settings of a successful conversion back
// to the config file so the next invocation starts from them.
func persistRenderSettings(ctx *commandContext, cfg *config.Config, req encoding.Request, logger *slog.Logger) {
	cfg.Render.Container = req.Container
	cfg.Render.VideoCodec = req.VideoCodec
	cfg.Render.AudioCodec = req.AudioCodec
	if req.Options.QualityFactor != nil {
		cfg.Render.QualityFactor = *req.Options.QualityFactor
	}
	if req.Options.BitrateKbps != nil {
		cfg.Render.BitrateKbps = *req.Options.BitrateKbps
	}
	if req.Options.Preset != "" {
		cfg.Render.Preset = req.Options.Preset
	}
	if req.Options.Passes > 0 {
		cfg.Render.Passes = req.Options.Passes
	}
	cfg.Paths.LastOpenDir = filepath.Dir(req.InputPath)

	if ctx.configPath == "" {
		return
	}
	if err := cfg.Save(ctx.configPath); err != nil {
		logger.Warn("render settings not persisted", logging.Error(err))
	}
}
