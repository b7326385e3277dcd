package treatment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/agrofum/silos-api/internal/application/ports"
	"github.com/agrofum/silos-api/internal/domain/entity"
	"github.com/agrofum/silos-api/pkg/config"
)

var _ ports.TreatmentFeed = (*Client)(nil)

// Client adaptador resty del feed de fumigación. El subsistema de servicios
// expone los tratamientos aplicados por lote; aquí solo se leen.
type Client struct {
	http *resty.Client
}

// NewClient construye el cliente con la configuración del feed.
func NewClient(cfg config.TreatmentConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	if cfg.APIKey != "" {
		httpClient.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}
	return &Client{http: httpClient}
}

// treatmentDTO payload del feed externo.
type treatmentDTO struct {
	ID       string    `json:"id"`
	BatchID  string    `json:"batch_id"`
	Product  string    `json:"product"`
	Dose     string    `json:"dose"`
	Operator string    `json:"operator"`
	Notes    string    `json:"notes"`
	Date     time.Time `json:"date"`
}

// ListByBatch devuelve los tratamientos de un lote.
func (c *Client) ListByBatch(ctx context.Context, batchID string) ([]*entity.TreatmentEvent, error) {
	var out []treatmentDTO
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("batch_id", batchID).
		SetResult(&out).
		Get("/treatments")
	if err != nil {
		return nil, fmt.Errorf("feed de tratamientos: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("feed de tratamientos: status %d", resp.StatusCode())
	}
	return toEvents(out), nil
}

// List devuelve todos los tratamientos del feed.
func (c *Client) List(ctx context.Context) ([]*entity.TreatmentEvent, error) {
	var out []treatmentDTO
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/treatments")
	if err != nil {
		return nil, fmt.Errorf("feed de tratamientos: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("feed de tratamientos: status %d", resp.StatusCode())
	}
	return toEvents(out), nil
}

func toEvents(dtos []treatmentDTO) []*entity.TreatmentEvent {
	events := make([]*entity.TreatmentEvent, 0, len(dtos))
	for _, d := range dtos {
		events = append(events, &entity.TreatmentEvent{
			ID:       d.ID,
			BatchID:  d.BatchID,
			Product:  d.Product,
			Dose:     d.Dose,
			Operator: d.Operator,
			Notes:    d.Notes,
			Date:     d.Date,
		})
	}
	return events
}
