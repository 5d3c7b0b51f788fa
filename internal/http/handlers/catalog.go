package handlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/plucktv/plucktv/internal/catalog"
	"github.com/plucktv/plucktv/internal/models"
	"github.com/plucktv/plucktv/pkg/xtream"
)

// CatalogHandler handles upstream catalog discovery and materialization.
type CatalogHandler struct {
	fetcher catalog.Fetcher
	timeout time.Duration
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog handler. The timeout bounds one
// discover or materialize request end to end.
func NewCatalogHandler(fetcher catalog.Fetcher, timeout time.Duration, logger *slog.Logger) *CatalogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogHandler{
		fetcher: fetcher,
		timeout: timeout,
		logger:  logger,
	}
}

// Register registers the catalog routes with the API.
func (h *CatalogHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "discoverCatalog",
		Method:      "POST",
		Path:        "/api/v1/catalog/discover",
		Summary:     "Discover account categories",
		Description: "Authenticates against the upstream server and lists the live, VOD and series categories",
		Tags:        []string{"Catalog"},
	}, h.Discover)

	huma.Register(api, huma.Operation{
		OperationID: "materializeCatalog",
		Method:      "POST",
		Path:        "/api/v1/catalog/materialize",
		Summary:     "Materialize category selections",
		Description: "Expands the selected categories into playable streams, ordered live, vod, series",
		Tags:        []string{"Catalog"},
	}, h.Materialize)
}

// DiscoverInput is the input for catalog discovery.
type DiscoverInput struct {
	Body struct {
		Server   string `json:"server" doc:"Upstream server URL or host" minLength:"1" maxLength:"2048"`
		Username string `json:"username" doc:"Account username" minLength:"1" maxLength:"255"`
		Password string `json:"password" doc:"Account password" minLength:"1" maxLength:"255"`
	}
}

// DiscoverOutput is the output for catalog discovery.
type DiscoverOutput struct {
	Body catalog.DiscoverResult
}

// Discover authenticates and returns the account's category tree.
func (h *CatalogHandler) Discover(ctx context.Context, input *DiscoverInput) (*DiscoverOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	creds := models.Credentials{
		Server:   input.Body.Server,
		Username: input.Body.Username,
		Password: input.Body.Password,
	}

	result, err := h.fetcher.Discover(ctx, creds)
	if err != nil {
		return nil, mapCatalogError(err)
	}
	return &DiscoverOutput{Body: *result}, nil
}

// MaterializeInput is the input for catalog materialization.
type MaterializeInput struct {
	Body struct {
		Credentials models.Credentials  `json:"credentials" doc:"Upstream account credentials"`
		Selections  []catalog.Selection `json:"selections" doc:"Categories to expand into streams"`
	}
}

// MaterializeOutput is the output for catalog materialization.
type MaterializeOutput struct {
	Body struct {
		Streams []models.Stream `json:"streams"`
		Count   int             `json:"count"`
	}
}

// Materialize expands the selected categories into canonical streams.
func (h *CatalogHandler) Materialize(ctx context.Context, input *MaterializeInput) (*MaterializeOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	streams, err := h.fetcher.Materialize(ctx, input.Body.Credentials, input.Body.Selections)
	if err != nil {
		return nil, mapCatalogError(err)
	}

	out := &MaterializeOutput{}
	out.Body.Streams = streams
	out.Body.Count = len(streams)
	return out, nil
}

// mapCatalogError translates the catalog error taxonomy to HTTP statuses:
// bad input 400, rejected credentials 401, unreachable upstream 502.
func mapCatalogError(err error) error {
	switch {
	case errors.Is(err, models.ErrMissingCredentials),
		errors.Is(err, xtream.ErrInvalidServer),
		errors.Is(err, models.ErrNoSelections),
		errors.Is(err, models.ErrInvalidKind):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, xtream.ErrAuthFailed):
		return huma.Error401Unauthorized(err.Error())
	case errors.Is(err, xtream.ErrUnreachable):
		return huma.Error502BadGateway(err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return huma.Error504GatewayTimeout("upstream aggregation timed out")
	default:
		return huma.Error500InternalServerError("catalog operation failed", err)
	}
}
