package handlers

import (
	"log/slog"

	"clicklens/internal/render"
	"clicklens/internal/repository"
	"clicklens/internal/services"
)

type Handler struct {
	logger   *slog.Logger
	clicks   *repository.ClickLogRepository
	enricher *services.Enricher
	renderer *render.TableRenderer
}

func NewHandler(
	logger *slog.Logger,
	clicks *repository.ClickLogRepository,
	enricher *services.Enricher,
	renderer *render.TableRenderer,
) *Handler {
	return &Handler{
		logger:   logger,
		clicks:   clicks,
		enricher: enricher,
		renderer: renderer,
	}
}
