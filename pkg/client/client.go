package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wandersonbarradas/bb-cobranca/pkg/config"
	"github.com/wandersonbarradas/bb-cobranca/pkg/observability"
)

// TokenProvider entrega um token de acesso válido antes de cada requisição.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// Response representa a resposta da API já negociada.
type Response struct {
	StatusCode  int
	ContentType string
	Raw         []byte
	Data        map[string]interface{}
	IsBinary    bool
}

// BodyFunc produz o corpo de cada tentativa. Operações que precisam
// regenerar campos por tentativa (caso do numeroTituloCliente) passam
// uma closure; as demais usam Send, que fixa o corpo.
type BodyFunc func(tentativa int) (interface{}, error)

// Client é o executor resiliente de requisições à API de cobrança.
type Client struct {
	auth        TokenProvider
	httpClient  *http.Client
	baseURL     string
	appKeyParam string
	appKey      string
	maxRetries  int
	retryDelay  time.Duration
	debug       bool
	log         zerolog.Logger
	metrics     observability.Provider

	// sleep é substituível em testes
	sleep func(time.Duration)
}

// New monta o executor a partir da configuração.
func New(cfg *config.Config, auth TokenProvider, log zerolog.Logger, metrics observability.Provider) *Client {
	if metrics == nil {
		metrics = &observability.NoopProvider{}
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.HTTP.GetConnectTimeout(),
		}).DialContext,
	}

	// Configs montadas à mão podem não passar pela validação do loader
	maxRetries := cfg.HTTP.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &Client{
		auth: auth,
		httpClient: &http.Client{
			Timeout:   cfg.HTTP.GetTimeout(),
			Transport: transport,
		},
		baseURL:     strings.TrimSuffix(cfg.APIURL(), "/") + "/",
		appKeyParam: cfg.AppKeyParam(),
		appKey:      cfg.Credentials.DeveloperKey,
		maxRetries:  maxRetries,
		retryDelay:  cfg.HTTP.GetRetryDelay(),
		debug:       cfg.Debug,
		log:         log,
		metrics:     metrics,
		sleep:       time.Sleep,
	}
}

// Send executa uma requisição com corpo fixo entre tentativas.
func (c *Client) Send(ctx context.Context, method, endpoint string, query url.Values, body interface{}) (*Response, error) {
	return c.SendFunc(ctx, method, endpoint, query, func(int) (interface{}, error) {
		return body, nil
	})
}

// SendFunc executa uma requisição com política de retentativas. Erros de
// conexão e o código 4874915 consomem tentativas com pausa fixa entre elas;
// qualquer outro erro é devolvido imediatamente.
func (c *Client) SendFunc(ctx context.Context, method, endpoint string, query url.Values, bodyFn BodyFunc) (*Response, error) {
	// 1. Autentica antes de qualquer tentativa
	accessToken, err := c.auth.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	// 2. Monta a URL com a chave de aplicação
	if query == nil {
		query = url.Values{}
	}
	query.Set(c.appKeyParam, c.appKey)
	fullURL := c.baseURL + strings.TrimPrefix(endpoint, "/") + "?" + query.Encode()

	var lastErr error

	for tentativa := 1; tentativa <= c.maxRetries; tentativa++ {
		if tentativa > 1 {
			c.metrics.Count("request.retry", 1, []string{"endpoint:" + endpoint})
			c.sleep(c.retryDelay)
		}

		body, err := bodyFn(tentativa)
		if err != nil {
			return nil, err
		}

		resp, err := c.attempt(ctx, method, fullURL, accessToken, body)
		if err == nil {
			c.metrics.Count("request.success", 1, []string{"endpoint:" + endpoint})
			return resp, nil
		}

		lastErr = err

		var connErr *ConnectivityError
		if errors.As(err, &connErr) {
			if c.debug {
				c.log.Debug().Err(err).Int("tentativa", tentativa).Msg("erro de conexão, retentando")
			}
			continue
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.HasCodigo(CodigoNossoNumeroDuplicado) {
			if c.debug {
				c.log.Debug().Int("tentativa", tentativa).Msg("nosso número duplicado, retentando com novo identificador")
			}
			continue
		}

		// Qualquer outro erro aborta as retentativas
		c.metrics.Count("request.error", 1, []string{"endpoint:" + endpoint})
		return nil, err
	}

	c.metrics.Count("request.exhausted", 1, []string{"endpoint:" + endpoint})
	return nil, &MaxAttemptsError{Attempts: c.maxRetries, Last: lastErr}
}

// attempt executa uma única tentativa.
func (c *Client) attempt(ctx context.Context, method, fullURL, accessToken string, body interface{}) (*Response, error) {
	var reader io.Reader
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("erro ao serializar corpo: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), fullURL, reader)
	if err != nil {
		return nil, &UnknownError{Err: err}
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.debug {
		c.logRequest(method, fullURL, bodyBytes)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isConnectivityError(err) {
			return nil, &ConnectivityError{URL: fullURL, Err: err}
		}
		return nil, &UnknownError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UnknownError{Err: err}
	}

	if resp.StatusCode >= 400 {
		apiErr := parseAPIError(resp.StatusCode, data)
		if c.debug {
			c.log.Debug().Int("status", resp.StatusCode).Str("mensagem", apiErr.Message).Msg("erro de requisição")
		}
		return nil, apiErr
	}

	contentType := resp.Header.Get("Content-Type")

	// Negociação de conteúdo: PDF volta como bytes brutos
	if strings.Contains(contentType, "application/pdf") {
		return &Response{
			StatusCode:  resp.StatusCode,
			ContentType: contentType,
			Raw:         data,
			IsBinary:    true,
		}, nil
	}

	response := &Response{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Raw:         data,
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &response.Data); err != nil {
			return nil, &UnknownError{Err: fmt.Errorf("erro ao decodificar resposta: %w", err)}
		}
	}

	if c.debug {
		c.log.Debug().RawJSON("resposta", data).Msg("resposta recebida")
	}

	return response, nil
}

// logRequest registra a requisição sem expor o token bearer.
func (c *Client) logRequest(method, fullURL string, body []byte) {
	event := c.log.Debug().
		Str("method", method).
		Str("url", fullURL).
		Str("authorization", "Bearer [REDACTED]")
	if len(body) > 0 {
		event = event.RawJSON("body", body)
	}
	event.Msg("requisição enviada")
}

// isConnectivityError identifica falhas em nível de conexão (host
// inalcançável, DNS, connection refused, timeout de dial). Timeouts de
// leitura contam como falha genérica.
func isConnectivityError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Op == "dial" || opErr.Op == "connect"
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		msg := urlErr.Err.Error()
		return strings.Contains(msg, "connection refused") ||
			strings.Contains(msg, "no such host") ||
			strings.Contains(msg, "network is unreachable")
	}

	return false
}
