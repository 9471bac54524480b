package config

import "time"

// URLs base da API de cobrança por ambiente.
const (
	SandboxAuthURL    = "https://oauth.hm.bb.com.br/oauth/token"
	SandboxAPIURL     = "https://api.hm.bb.com.br/cobrancas/v2/"
	ProductionAuthURL = "https://oauth.bb.com.br/oauth/token"
	ProductionAPIURL  = "https://api.bb.com.br/cobrancas/v2/"
)

// Config representa a estrutura raiz da configuração do cliente de cobrança.
type Config struct {
	Environment string          `yaml:"environment" env:"BB_ENVIRONMENT" envDefault:"sandbox" validate:"required,oneof=sandbox production"`
	Credentials CredentialsConf `yaml:"credentials"`
	Convenio    ConvenioConf    `yaml:"convenio"`
	Cache       CacheConf       `yaml:"cache"`
	HTTP        HTTPConf        `yaml:"http"`
	Logging     LoggingConf     `yaml:"logging"`
	Metrics     MetricsConf     `yaml:"metrics"`
	Debug       bool            `yaml:"debug" env:"BB_API_DEBUG"`
}

// CredentialsConf agrupa as credenciais de acesso à API.
type CredentialsConf struct {
	ClientID     string `yaml:"client_id" env:"BB_CLIENT_ID" validate:"required"`
	ClientSecret string `yaml:"client_secret" env:"BB_CLIENT_SECRET" validate:"required"`
	DeveloperKey string `yaml:"developer_key" env:"BB_DEVELOPER_KEY" validate:"required"`
}

// ConvenioConf contém os dados do convênio de cobrança junto ao banco.
type ConvenioConf struct {
	Numero           string `yaml:"numero" env:"BB_CONVENIO" validate:"required"`
	Carteira         string `yaml:"carteira" env:"BB_CARTEIRA" envDefault:"17" validate:"required"`
	VariacaoCarteira string `yaml:"variacao_carteira" env:"BB_VARIACAO_CARTEIRA" envDefault:"35" validate:"required"`
	Agencia          string `yaml:"agencia" env:"BB_AGENCIA"`
	Conta            string `yaml:"conta" env:"BB_CONTA"`
	PagamentoPix     bool   `yaml:"pagamento_pix" env:"BB_PAGAMENTO_PIX" envDefault:"true"`
}

// CacheConf seleciona o backend de cache de tokens.
type CacheConf struct {
	Method   string    `yaml:"method" env:"BB_CACHE_METHOD" envDefault:"memory" validate:"oneof=memory file redis"`
	FilePath string    `yaml:"file_path" env:"BB_CACHE_FILE"`
	Redis    RedisConf `yaml:"redis"`
}

type RedisConf struct {
	Addr     string `yaml:"addr" env:"BB_REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `yaml:"password" env:"BB_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"BB_REDIS_DB"`
}

// HTTPConf contém timeouts e política de retentativas das chamadas à API.
type HTTPConf struct {
	Timeout        string `yaml:"timeout" env:"BB_API_TIMEOUT" envDefault:"15s"`
	ConnectTimeout string `yaml:"connect_timeout" env:"BB_API_CONNECT_TIMEOUT" envDefault:"5s"`
	MaxRetries     int    `yaml:"max_retries" env:"BB_API_MAX_RETRIES" envDefault:"3" validate:"gte=1,lte=10"`
	RetryDelay     string `yaml:"retry_delay" env:"BB_API_RETRY_DELAY" envDefault:"500ms"`

	// Overrides de URL, usados em testes e com o emulador local.
	BaseAuthURL string `yaml:"base_auth_url" env:"BB_BASE_AUTH_URL"`
	BaseAPIURL  string `yaml:"base_api_url" env:"BB_BASE_API_URL"`
}

type LoggingConf struct {
	Enabled bool   `yaml:"enabled" env:"BB_LOG_ENABLED" envDefault:"true"`
	Level   string `yaml:"level" env:"BB_LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format  string `yaml:"format" env:"BB_LOG_FORMAT" envDefault:"json" validate:"oneof=json console"`
}

type MetricsConf struct {
	Datadog DatadogConf `yaml:"datadog"`
}

type DatadogConf struct {
	Enabled   bool   `yaml:"enabled" env:"DD_ENABLED"`
	Addr      string `yaml:"addr" env:"DD_AGENT_HOST" validate:"required_if=Enabled true"`
	Namespace string `yaml:"namespace" env:"DD_NAMESPACE" envDefault:"bb_cobranca"`
}

func (h HTTPConf) GetTimeout() time.Duration {
	d, err := time.ParseDuration(h.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

func (h HTTPConf) GetConnectTimeout() time.Duration {
	d, err := time.ParseDuration(h.ConnectTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

func (h HTTPConf) GetRetryDelay() time.Duration {
	d, err := time.ParseDuration(h.RetryDelay)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// IsProduction indica se a configuração aponta para o ambiente produtivo.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AuthURL resolve a URL de autenticação, respeitando o override quando definido.
func (c *Config) AuthURL() string {
	if c.HTTP.BaseAuthURL != "" {
		return c.HTTP.BaseAuthURL
	}
	if c.IsProduction() {
		return ProductionAuthURL
	}
	return SandboxAuthURL
}

// APIURL resolve a URL base da API de cobrança, respeitando o override.
func (c *Config) APIURL() string {
	if c.HTTP.BaseAPIURL != "" {
		return c.HTTP.BaseAPIURL
	}
	if c.IsProduction() {
		return ProductionAPIURL
	}
	return SandboxAPIURL
}

// AppKeyParam retorna o nome do query parameter da chave de aplicação,
// que varia conforme o ambiente.
func (c *Config) AppKeyParam() string {
	if c.IsProduction() {
		return "gw-app-key"
	}
	return "gw-dev-app-key"
}
