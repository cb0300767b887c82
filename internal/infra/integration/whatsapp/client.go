package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL  = "https://graph.facebook.com/v18.0"
	DefaultTemplate = "boas_vindas_cliente"
)

var ErrNotConfigured = errors.New("whatsapp não configurado")

type Config struct {
	AccessToken string
	PhoneID     string
	BaseURL     string
	Template    string
}

type Client struct {
	accessToken string
	phoneID     string
	baseURL     string
	template    string
	httpClient  *http.Client
	logger      *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Template == "" {
		cfg.Template = DefaultTemplate
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		accessToken: cfg.AccessToken,
		phoneID:     cfg.PhoneID,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		template:    cfg.Template,
		httpClient:  &http.Client{},
		logger:      logger,
	}
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c.accessToken != "" && c.phoneID != ""
}

// SendWelcome sends the welcome template to a newly migrated client.
func (c *Client) SendWelcome(ctx context.Context, phone, name string) error {
	if !c.Configured() {
		c.logger.Debug("whatsapp disabled, skipping welcome")
		return nil
	}
	return c.SendMessage(ctx, SendMessageInput{
		PhoneNumber:  NormalizePhone(phone),
		TemplateName: c.template,
		Parameters:   []string{name},
	})
}

func (c *Client) SendMessage(ctx context.Context, input SendMessageInput) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	params := make([]templateParameter, 0, len(input.Parameters))
	for _, p := range input.Parameters {
		params = append(params, templateParameter{Type: "text", Text: p})
	}

	body, err := json.Marshal(messageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               input.PhoneNumber,
		Type:             "template",
		Template: templatePayload{
			Name:       input.TemplateName,
			Language:   templateLanguage{Code: "pt_BR"},
			Components: []templateComponent{{Type: "body", Parameters: params}},
		},
	})
	if err != nil {
		return fmt.Errorf("whatsapp: erro ao serializar payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("whatsapp: erro ao criar requisição: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: erro ao enviar mensagem: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var result SendMessageResponse
	_ = json.Unmarshal(respBody, &result)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		if result.Error != nil {
			return fmt.Errorf("whatsapp api error %d: %s", resp.StatusCode, result.Error.Message)
		}
		return fmt.Errorf("whatsapp api error: %d", resp.StatusCode)
	}
	if result.Error != nil {
		return fmt.Errorf("whatsapp: %s", result.Error.Message)
	}

	c.logger.Info("whatsapp message sent", zap.String("to", input.PhoneNumber), zap.String("template", input.TemplateName))
	return nil
}

// NormalizePhone keeps digits and prefixes the Brazilian country code on local numbers.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 10 || len(digits) == 11 {
		return "55" + digits
	}
	return digits
}
