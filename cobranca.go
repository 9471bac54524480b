package bbcobranca

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wandersonbarradas/bb-cobranca/pkg/boleto"
	"github.com/wandersonbarradas/bb-cobranca/pkg/client"
	"github.com/wandersonbarradas/bb-cobranca/pkg/config"
	"github.com/wandersonbarradas/bb-cobranca/pkg/logger"
	"github.com/wandersonbarradas/bb-cobranca/pkg/observability"
	"github.com/wandersonbarradas/bb-cobranca/pkg/token"
)

// Client agrega a pilha completa do cliente de cobrança já montada.
type Client struct {
	Boletos *boleto.Service
	API     *client.Client
	Auth    *token.Authenticator
	Log     zerolog.Logger
	Metrics observability.Provider
}

// New monta o cliente a partir da configuração: logger, métricas, cache de
// tokens, autenticador, executor e serviço de boletos.
func New(cfg *config.Config) (*Client, error) {
	log := logger.Configure(cfg.Logging)

	metrics, err := observability.SetupMetrics(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("erro ao configurar métricas: %w", err)
	}

	cache, err := token.NewCacheFromConfig(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("erro ao configurar cache de tokens: %w", err)
	}

	auth := token.NewAuthenticator(cfg, cache, log, metrics)
	api := client.New(cfg, auth, log, metrics)

	return &Client{
		Boletos: boleto.NewService(api, cfg, log),
		API:     api,
		Auth:    auth,
		Log:     log,
		Metrics: metrics,
	}, nil
}
