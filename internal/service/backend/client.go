package backend

import (
	"context"
	"fmt"
	"strconv"

	"Hikari/internal/domain/models"
	drepo "Hikari/internal/domain/repository"
	xhttp "Hikari/pkg/http"
	applogger "Hikari/pkg/logger"
)

// Client talks to the holdings REST backend.
type Client struct {
	http *xhttp.Client
	log  *applogger.Logger
}

var _ drepo.HoldingsBackend = (*Client)(nil)

// New creates a backend client on top of an HTTP client whose base URL points
// at the backend root.
func New(hc *xhttp.Client, l *applogger.Logger) *Client {
	if l == nil {
		l = applogger.Nop()
	}
	return &Client{http: hc, log: l.Component("backend")}
}

type articlesEnvelope struct {
	Articles []models.NewsArticle `json:"articles"`
}

type alertsEnvelope struct {
	Alerts []models.Alert `json:"alerts"`
}

func (c *Client) ListHoldings(ctx context.Context) ([]models.Holding, error) {
	var out []models.Holding
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		Path:   "/holdings",
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	if out == nil {
		out = []models.Holding{}
	}
	return out, nil
}

func (c *Client) CreateHolding(ctx context.Context, req models.CreateHoldingRequest) (models.Holding, error) {
	var out models.Holding
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		Path:   "/holdings",
		Body:   req,
	}, &out)
	if err != nil {
		return models.Holding{}, fmt.Errorf("create holding %s: %w", req.Symbol, err)
	}
	return out, nil
}

func (c *Client) UpdateHolding(ctx context.Context, id int64, req models.UpdateHoldingRequest) (models.Holding, error) {
	var out models.Holding
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPut,
		Path:   holdingPath(id),
		Body:   req,
	}, &out)
	if err != nil {
		return models.Holding{}, fmt.Errorf("update holding %d: %w", id, err)
	}
	return out, nil
}

func (c *Client) DeleteHolding(ctx context.Context, id int64) error {
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodDelete,
		Path:   holdingPath(id),
	}, nil)
	if err != nil {
		return fmt.Errorf("delete holding %d: %w", id, err)
	}
	return nil
}

// ListNews returns the articles for id. Out of range sentiment scores are
// dropped on decode.
func (c *Client) ListNews(ctx context.Context, id int64) ([]models.NewsArticle, error) {
	var env articlesEnvelope
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		Path:   holdingPath(id) + "/news",
	}, &env)
	if err != nil {
		return nil, fmt.Errorf("list news for %d: %w", id, err)
	}

	out := env.Articles
	if out == nil {
		out = []models.NewsArticle{}
	}
	for i := range out {
		if out[i].Sanitize() {
			c.log.Debug("dropped sentiment score",
				applogger.Int64("holding_id", id),
				applogger.Int64("article_id", out[i].ID),
			)
		}
	}
	return out, nil
}

func (c *Client) ListAlerts(ctx context.Context, id int64) ([]models.Alert, error) {
	var env alertsEnvelope
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		Path:   holdingPath(id) + "/alerts",
	}, &env)
	if err != nil {
		return nil, fmt.Errorf("list alerts for %d: %w", id, err)
	}
	if env.Alerts == nil {
		return []models.Alert{}, nil
	}
	return env.Alerts, nil
}

func holdingPath(id int64) string {
	return "/holdings/" + strconv.FormatInt(id, 10)
}
