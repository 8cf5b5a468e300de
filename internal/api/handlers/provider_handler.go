package handlers

import (
	"facturador/internal/dto"
	"facturador/internal/repository"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ProviderHandler struct {
	providers *repository.ProviderRepository
	logger    *zap.Logger
}

func NewProviderHandler(providers *repository.ProviderRepository, logger *zap.Logger) *ProviderHandler {
	return &ProviderHandler{
		providers: providers,
		logger:    logger,
	}
}

// ListProviders returns every known issuer, ordered by name.
func (h *ProviderHandler) ListProviders(c *fiber.Ctx) error {
	providers, err := h.providers.List(c.Context())
	if err != nil {
		return err
	}

	resp := make([]dto.ProviderResponse, len(providers))
	for i, p := range providers {
		resp[i] = dto.ProviderResponse{
			Nombre:    p.Name,
			CUIT:      p.CUIT,
			Direccion: p.Address,
		}
	}

	return c.JSON(resp)
}
