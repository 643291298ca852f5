package commentary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CurveScout/internal/domain/models"
	domsvc "CurveScout/internal/domain/service"
	"CurveScout/pkg/cache"
	"CurveScout/pkg/config"
	xhttp "CurveScout/pkg/http"
)

// Client asks the external alignment-commentary service for a short
// narrative per ranked signal. Responses are cached by signal identity
// and data date, since the same signal is often re-requested by API
// readers within the week.
type Client struct {
	baseURL string
	client  *xhttp.Client
	cache   cache.Service
	ttl     time.Duration
}

func NewClient(cfg *config.Config, c cache.Service) *Client {
	timeout := cfg.Commentary.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL: cfg.Commentary.URL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		cache:   c,
		ttl:     cfg.Commentary.CacheTTL,
	}
}

type commentReq struct {
	Symbol              string         `json:"symbol"`
	Strategy            string         `json:"strategy"`
	Direction           string         `json:"direction"`
	Trigger             string         `json:"trigger"`
	EntryDate           string         `json:"entry_date"`
	TotalPoints         int            `json:"total_points"`
	AlignmentScore      float64        `json:"alignment_score"`
	ConfluenceBreakdown map[string]int `json:"confluence_breakdown"`
}

type commentResp struct {
	Commentary string `json:"commentary"`
}

func (c *Client) Comment(ctx context.Context, sig *models.Signal) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("commentary client not configured")
	}

	key := fmt.Sprintf("curvescout:commentary:%s:%s:%s:%s",
		sig.EntryDate.Format("2006-01-02"), sig.Symbol, sig.Strategy, sig.Direction)

	if c.cache != nil {
		var cached string
		err := c.cache.Get(ctx, key, &cached)
		if err == nil && cached != "" {
			return cached, nil
		}
		if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
			return "", fmt.Errorf("commentary cache: %w", err)
		}
	}

	req := commentReq{
		Symbol:              sig.Symbol,
		Strategy:            sig.Strategy,
		Direction:           string(sig.Direction),
		Trigger:             sig.Trigger,
		EntryDate:           sig.EntryDate.Format("2006-01-02"),
		TotalPoints:         sig.TotalPoints,
		AlignmentScore:      sig.AlignmentScore,
		ConfluenceBreakdown: sig.ConfluenceBreakdown,
	}

	var resp commentResp
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + "/commentary/align",
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: req,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("post commentary: %w", err)
	}

	if c.cache != nil && resp.Commentary != "" {
		if err := c.cache.Set(ctx, key, resp.Commentary, c.ttl); err != nil {
			return resp.Commentary, nil
		}
	}
	return resp.Commentary, nil
}

var _ domsvc.Commentator = (*Client)(nil)
