package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	appsync "github.com/jhoicas/Clientes-api/internal/application/sync"
	"github.com/jhoicas/Clientes-api/pkg/config"
)

const (
	// headerAccessToken header de autenticación del Admin API.
	headerAccessToken = "X-Shopify-Access-Token"

	// requestTimeout timeout de red por petición GraphQL.
	requestTimeout = 30 * time.Second

	// maxAttempts intentos por operación ante throttling (429 / THROTTLED).
	maxAttempts = 3

	throttledCode = "THROTTLED"
)

// Client cliente GraphQL del Admin API de Shopify.
// Usa net/http de la stdlib; una sola operación por petición.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	limiter    *RateLimiter
}

// NewClient construye el cliente para la tienda y versión configuradas.
func NewClient(cfg config.ShopifyConfig) *Client {
	return &Client{
		endpoint: fmt.Sprintf("https://%s.myshopify.com/admin/api/%s/graphql.json",
			cfg.ShopName, cfg.APIVersion),
		token:      cfg.AccessToken,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    NewRateLimiter(),
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// Do ejecuta una operación GraphQL y deserializa data en out.
// Reintenta con backoff ante señales de rate limit (HTTP 429 o código
// THROTTLED), honrando Retry-After; agotados los intentos devuelve un
// GatewayError de throttling. Cualquier forma inesperada de la respuesta es
// un error de protocolo.
func (c *Client) Do(ctx context.Context, op, query string, variables map[string]any, out any) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		delay, err := c.doOnce(ctx, op, query, variables, out)
		if err == nil {
			return nil
		}
		if delay == 0 {
			return err // no reintetable: protocolo o negocio remoto
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return appsync.NewRateLimitError(op, lastErr)
}

// doOnce hace una petición. Devuelve delay > 0 cuando la falla es throttling
// y conviene reintentar tras esa espera.
func (c *Client) doOnce(ctx context.Context, op, query string, variables map[string]any, out any) (time.Duration, error) {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return 0, appsync.NewProtocolError(op, fmt.Errorf("serializar petición: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, appsync.NewProtocolError(op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerAccessToken, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeout o transporte roto: equivale a un error de protocolo.
		return 0, appsync.NewProtocolError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return retryDelay(resp), fmt.Errorf("HTTP 429")
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return 0, appsync.NewProtocolError(op, fmt.Errorf("HTTP %d: %s", resp.StatusCode, raw))
	}

	var gqlResp graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return 0, appsync.NewProtocolError(op, fmt.Errorf("decodificar respuesta: %w", err))
	}

	if len(gqlResp.Errors) > 0 {
		for _, e := range gqlResp.Errors {
			if e.Extensions.Code == throttledCode {
				return retryDelay(resp), fmt.Errorf("graphql: %s", e.Message)
			}
		}
		return 0, appsync.NewProtocolError(op, fmt.Errorf("graphql: %s", gqlResp.Errors[0].Message))
	}
	if gqlResp.Data == nil {
		return 0, appsync.NewProtocolError(op, fmt.Errorf("respuesta sin data"))
	}
	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return 0, appsync.NewProtocolError(op, fmt.Errorf("deserializar data: %w", err))
	}
	return 0, nil
}
