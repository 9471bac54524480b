package token

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wandersonbarradas/bb-cobranca/pkg/config"
	"github.com/wandersonbarradas/bb-cobranca/pkg/observability"
)

// Margem de segurança: o token é considerado expirado 5 minutos antes do
// expires_at real, e a entrada de cache expira 300s antes do token.
const (
	safetyMargin   = 5 * time.Minute
	cacheTTLMargin = 300 * time.Second
)

// AuthError representa uma falha na troca OAuth. Nunca é retentada
// nesta camada.
type AuthError struct {
	Err         string
	Description string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("falha na autenticação: %s - %s", e.Err, e.Description)
}

type cachedToken struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

// tokenResponse mapeia a resposta padrão da RFC 6749 (OAuth2)
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Authenticator obtém e cacheia tokens de acesso via client credentials.
// Cada instância carrega suas próprias credenciais e handle de cache;
// não há estado global.
type Authenticator struct {
	clientID     string
	clientSecret string
	environment  string
	authURL      string
	cache        Cache
	httpClient   *http.Client
	log          zerolog.Logger
	metrics      observability.Provider
}

// NewAuthenticator monta o autenticador a partir da configuração.
func NewAuthenticator(cfg *config.Config, cache Cache, log zerolog.Logger, metrics observability.Provider) *Authenticator {
	if metrics == nil {
		metrics = &observability.NoopProvider{}
	}
	return &Authenticator{
		clientID:     cfg.Credentials.ClientID,
		clientSecret: cfg.Credentials.ClientSecret,
		environment:  cfg.Environment,
		authURL:      cfg.AuthURL(),
		cache:        cache,
		httpClient:   &http.Client{Timeout: cfg.HTTP.GetTimeout()},
		log:          log,
		metrics:      metrics,
	}
}

func (a *Authenticator) cacheKey() string {
	return "bb_api_token_" + a.environment
}

// AccessToken retorna um token válido, consultando o cache antes de
// realizar uma nova troca OAuth.
func (a *Authenticator) AccessToken(ctx context.Context) (string, error) {
	// 1. Consulta o cache
	if raw, ok, err := a.cache.Get(ctx, a.cacheKey()); err == nil && ok {
		var cached cachedToken
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			expiresAt := time.Unix(cached.ExpiresAt, 0)
			if expiresAt.Add(-safetyMargin).After(time.Now()) {
				a.metrics.Count("auth.cache_hit", 1, nil)
				return cached.AccessToken, nil
			}
		}
	} else if err != nil {
		// Falha de cache não impede a autenticação
		a.log.Warn().Err(err).Msg("falha ao consultar cache de token")
	}

	// 2. Sem token válido: autentica
	a.metrics.Count("auth.refresh", 1, nil)
	return a.authenticate(ctx)
}

func (a *Authenticator) authenticate(ctx context.Context) (string, error) {
	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.authURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", &AuthError{Err: "request_invalido", Description: err.Error()}
	}

	basic := base64.StdEncoding.EncodeToString([]byte(a.clientID + ":" + a.clientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", &AuthError{Err: "erro_conexao", Description: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &AuthError{Err: "erro_leitura", Description: err.Error()}
	}

	if resp.StatusCode >= 400 {
		return "", parseAuthError(body, resp.StatusCode)
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", &AuthError{Err: "resposta_invalida", Description: err.Error()}
	}
	if tokenResp.AccessToken == "" {
		return "", &AuthError{Err: "token_ausente", Description: "token de acesso não retornado pelo servidor"}
	}

	expiresIn := tokenResp.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 3600
	}
	expiresAt := time.Now().Add(time.Duration(expiresIn) * time.Second)

	// 3. Armazena com TTL menor que a vida do token, para que a entrada
	// expire antes dele
	ttl := time.Duration(expiresIn)*time.Second - cacheTTLMargin
	if ttl <= 0 {
		ttl = time.Duration(expiresIn) * time.Second / 2
	}

	cached, _ := json.Marshal(cachedToken{
		AccessToken: tokenResp.AccessToken,
		ExpiresAt:   expiresAt.Unix(),
	})
	if err := a.cache.Set(ctx, a.cacheKey(), string(cached), ttl); err != nil {
		a.log.Warn().Err(err).Msg("falha ao gravar token no cache")
	}

	return tokenResp.AccessToken, nil
}

func parseAuthError(body []byte, status int) *AuthError {
	var payload struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		return &AuthError{
			Err:         "erro_desconhecido",
			Description: fmt.Sprintf("status %d: %s", status, string(body)),
		}
	}
	return &AuthError{Err: payload.Error, Description: payload.ErrorDescription}
}
