package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type ConfigValidator struct {
	validate *validator.Validate
}

// NewValidator cria uma nova instância do validador
func NewValidator() *ConfigValidator {
	return &ConfigValidator{
		validate: validator.New(),
	}
}

// Validate realiza validações estruturais (tags) e semânticas (lógica)
func (cv *ConfigValidator) Validate(cfg *Config) error {
	// 1. Validação Estrutural (Tags do struct: required, oneof, etc)
	if err := cv.validate.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			var errMsgs []string
			for _, e := range validationErrors {
				errMsgs = append(errMsgs, fmt.Sprintf("Campo '%s' falhou na regra '%s'", e.Field(), e.Tag()))
			}
			return fmt.Errorf("erros de validação estrutural:\n- %s", strings.Join(errMsgs, "\n- "))
		}
		return fmt.Errorf("erro de validação estrutural: %w", err)
	}

	// 2. Validação Semântica
	if err := cv.validateSemantics(cfg); err != nil {
		return fmt.Errorf("erro de validação semântica: %w", err)
	}

	return nil
}

func (cv *ConfigValidator) validateSemantics(cfg *Config) error {
	// 1. Cache redis precisa de endereço
	if cfg.Cache.Method == "redis" && cfg.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache 'redis' requer 'cache.redis.addr'")
	}

	// 2. Cache em arquivo precisa de caminho
	if cfg.Cache.Method == "file" && cfg.Cache.FilePath == "" {
		return fmt.Errorf("cache 'file' requer 'cache.file_path'")
	}

	// 3. Durations precisam ser interpretáveis
	for nome, valor := range map[string]string{
		"http.timeout":         cfg.HTTP.Timeout,
		"http.connect_timeout": cfg.HTTP.ConnectTimeout,
		"http.retry_delay":     cfg.HTTP.RetryDelay,
	} {
		if valor == "" {
			continue
		}
		if _, err := time.ParseDuration(valor); err != nil {
			return fmt.Errorf("duração inválida em '%s': %q", nome, valor)
		}
	}

	return nil
}
