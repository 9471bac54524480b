package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// CodigoNossoNumeroDuplicado é o código de erro do banco para
// "Nosso Número já incluído anteriormente". É o único erro de negócio
// elegível para retentativa cega: basta um novo identificador.
const CodigoNossoNumeroDuplicado = "4874915"

// ErrorEntry é uma entrada da lista de erros retornada pelo banco.
type ErrorEntry struct {
	Codigo   string `json:"codigo"`
	Mensagem string `json:"mensagem"`
}

// APIError representa uma resposta não-sucesso do banco com corpo
// interpretável.
type APIError struct {
	StatusCode int
	Message    string
	Erros      []ErrorEntry
}

func (e *APIError) Error() string {
	return fmt.Sprintf("erro %d da API: %s", e.StatusCode, e.Message)
}

// HasCodigo verifica se algum dos erros carrega o código informado.
func (e *APIError) HasCodigo(codigo string) bool {
	for _, entry := range e.Erros {
		if entry.Codigo == codigo {
			return true
		}
	}
	return false
}

// ConnectivityError indica que o transporte não alcançou o host.
// É retentado até o orçamento configurado.
type ConnectivityError struct {
	URL string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("erro de conexão com %s: %v", e.URL, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// UnknownError embrulha falhas de transporte não classificadas.
type UnknownError struct {
	Err error
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("erro na requisição: %v", e.Err)
}

func (e *UnknownError) Unwrap() error { return e.Err }

// MaxAttemptsError embrulha o último erro após o esgotamento das
// retentativas.
type MaxAttemptsError struct {
	Attempts int
	Last     error
}

func (e *MaxAttemptsError) Error() string {
	return fmt.Sprintf("excedido o número máximo de tentativas (%d). Último erro: %v", e.Attempts, e.Last)
}

func (e *MaxAttemptsError) Unwrap() error { return e.Last }

// parseAPIError classifica um corpo de erro do banco. A precedência é:
// erros[].textoMensagem/codigo → errors[].message → message → texto bruto.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Message:    "Erro na API do BB",
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var payload map[string]interface{}
	if err := decoder.Decode(&payload); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		if apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("resposta sem corpo (status %d)", statusCode)
		}
		return apiErr
	}

	// 1. Formato primário: {"erros": [{"codigo": ..., "textoMensagem": ...}]}
	if erros, ok := payload["erros"].([]interface{}); ok && len(erros) > 0 {
		for _, raw := range erros {
			entry, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			parsed := ErrorEntry{Mensagem: "Erro desconhecido"}
			if msg, ok := entry["textoMensagem"].(string); ok {
				parsed.Mensagem = msg
			} else if msg, ok := entry["mensagem"].(string); ok {
				parsed.Mensagem = msg
			}
			if codigo, ok := entry["codigo"]; ok {
				parsed.Codigo = fmt.Sprint(codigo)
			}
			apiErr.Erros = append(apiErr.Erros, parsed)
		}
		if len(apiErr.Erros) > 0 {
			apiErr.Message = apiErr.Erros[0].Mensagem
			return apiErr
		}
	}

	// 2. Formato alternativo: {"errors": [{"message": ...}]}
	if errors, ok := payload["errors"].([]interface{}); ok && len(errors) > 0 {
		for _, raw := range errors {
			entry, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			msg := "Erro desconhecido"
			if m, ok := entry["message"].(string); ok {
				msg = m
			}
			apiErr.Erros = append(apiErr.Erros, ErrorEntry{Mensagem: msg})
		}
		if len(apiErr.Erros) > 0 {
			apiErr.Message = apiErr.Erros[0].Mensagem
			return apiErr
		}
	}

	// 3. Mensagem de topo: {"message": ...}
	if msg, ok := payload["message"].(string); ok && msg != "" {
		apiErr.Message = msg
		return apiErr
	}

	// 4. Sem formato reconhecido: usa o corpo bruto
	if text := strings.TrimSpace(string(body)); text != "" {
		apiErr.Message = text
	}
	return apiErr
}
