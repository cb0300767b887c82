package viacep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

var (
	ErrInvalidPostalCode = errors.New("cep must have 8 digits")
	ErrNotFound          = errors.New("cep not found")

	cepPattern = regexp.MustCompile(`^\d{8}$`)
)

const DefaultBaseURL = "https://viacep.com.br/ws"

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// Lookup resolves an 8-digit CEP.
func (c *Client) Lookup(ctx context.Context, postalCode string) (*entity.Address, error) {
	if !cepPattern.MatchString(postalCode) {
		return nil, ErrInvalidPostalCode
	}

	url := fmt.Sprintf("%s/%s/json/", c.baseURL, postalCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro de comunicação com viacep: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("viacep com erro: %d", resp.StatusCode)
	}

	var body addressResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("erro ao ler resposta json: %w", err)
	}
	if body.Erro {
		return nil, ErrNotFound
	}

	return &entity.Address{
		Street:       body.Logradouro,
		Neighborhood: body.Bairro,
		City:         body.Localidade,
		State:        body.UF,
	}, nil
}
