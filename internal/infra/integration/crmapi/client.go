package crmapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"go.uber.org/zap"
)

// Client talks to the CRM REST API. No request timeout is set: callers bound requests
// through their context.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{},
		logger:  logger,
	}
}

// GetFunnel returns the full funnel snapshot; the API does not paginate it.
func (c *Client) GetFunnel(ctx context.Context) ([]entity.FunnelEntry, error) {
	var resp funnelResponse
	if err := c.do(ctx, http.MethodGet, "/funnel", nil, &resp); err != nil {
		return nil, err
	}

	entries := make([]entity.FunnelEntry, 0, len(resp.Data))
	for _, d := range resp.Data {
		stage, err := entity.ParseStage(d.Stage)
		if err != nil {
			c.logger.Warn("skipping funnel entry with unknown stage",
				zap.String("entry_id", d.ID),
				zap.String("stage", d.Stage),
			)
			continue
		}
		entries = append(entries, entity.FunnelEntry{
			ID:        d.ID,
			Lead:      d.Lead.toEntity(),
			Stage:     stage,
			UpdatedAt: d.UpdatedAt,
		})
	}

	return entries, nil
}

func (c *Client) UpdateFunnelStage(ctx context.Context, entryID string, stage entity.Stage) error {
	path := "/funnel/" + url.PathEscape(entryID)
	return c.do(ctx, http.MethodPatch, path, updateStageRequest{Stage: string(stage)}, nil)
}

func (c *Client) UpdateLead(ctx context.Context, leadID string, patch entity.LeadPatch) error {
	path := "/leads/" + url.PathEscape(leadID)
	return c.do(ctx, http.MethodPatch, path, updateLeadRequest{
		Active:     patch.Active,
		LostReason: patch.LostReason,
	}, nil)
}

func (c *Client) CreateClient(ctx context.Context, client entity.Client) (*entity.Client, error) {
	var resp clientResponse
	if err := c.do(ctx, http.MethodPost, "/clients", toCreateClientRequest(client), &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, &entity.GatewayError{StatusCode: http.StatusBadGateway, Message: "empty client response"}
	}
	return resp.Data.toEntity(), nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("erro ao serializar payload: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return &entity.GatewayError{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("crm api returned error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return &entity.GatewayError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("erro ao ler resposta json: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

// errorMessage pulls the server-supplied message out of an error body, if any.
func errorMessage(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
