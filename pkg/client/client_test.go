package client

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wandersonbarradas/bb-cobranca/pkg/config"
)

type stubAuth struct {
	token string
	err   error
	calls int
}

func (s *stubAuth) AccessToken(ctx context.Context) (string, error) {
	s.calls++
	return s.token, s.err
}

// flakyTransport falha N vezes com erro de conexão antes de delegar.
type flakyTransport struct {
	failures int
	calls    int
	inner    http.RoundTripper
}

func (t *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.calls++
	if t.calls <= t.failures {
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connect: connection refused")}
	}
	if t.inner == nil {
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connect: connection refused")}
	}
	return t.inner.RoundTrip(req)
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	cfg := &config.Config{
		Environment: "sandbox",
		Credentials: config.CredentialsConf{DeveloperKey: "dev-key"},
		HTTP: config.HTTPConf{
			MaxRetries: 3,
			RetryDelay: "1ms",
			Timeout:    "5s",
			BaseAPIURL: baseURL,
		},
	}

	c := New(cfg, &stubAuth{token: "tok-teste"}, zerolog.Nop(), nil)
	c.sleep = func(time.Duration) {}
	return c
}

func TestSend_InjetaAutenticacaoEAppKey(t *testing.T) {
	var gotAuth, gotAppKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAppKey = r.URL.Query().Get("gw-dev-app-key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL+"/")

	resp, err := c.Send(context.Background(), "GET", "boletos", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-teste", gotAuth)
	assert.Equal(t, "dev-key", gotAppKey)
	assert.Equal(t, true, resp.Data["ok"])
	assert.False(t, resp.IsBinary)
}

func TestSend_RespostaPDF(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 conteudo"))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL+"/")

	resp, err := c.Send(context.Background(), "GET", "boletos/1", nil, nil)
	require.NoError(t, err)
	assert.True(t, resp.IsBinary)
	assert.Contains(t, string(resp.Raw), "%PDF")
	assert.Nil(t, resp.Data)
}

func TestNew_OrcamentoDeTentativasNaoPositivo(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	cfg := &config.Config{
		Environment: "sandbox",
		Credentials: config.CredentialsConf{DeveloperKey: "dev-key"},
		HTTP: config.HTTPConf{
			Timeout:    "5s",
			BaseAPIURL: server.URL + "/",
			// MaxRetries zerado: config montada à mão, sem passar pelo loader
		},
	}
	c := New(cfg, &stubAuth{token: "tok-teste"}, zerolog.Nop(), nil)
	c.sleep = func(time.Duration) {}

	resp, err := c.Send(context.Background(), "GET", "boletos", nil, nil)
	require.NoError(t, err, "o orçamento deve cair para o default em vez de esgotar sem tentar")
	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSend_RetentaErroDeConexao(t *testing.T) {
	t.Run("Deve ter sucesso quando a conexão volta dentro do orçamento", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := newTestClient(t, server.URL+"/")
		transport := &flakyTransport{failures: 2, inner: http.DefaultTransport}
		c.httpClient = &http.Client{Transport: transport}

		_, err := c.Send(context.Background(), "GET", "boletos", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, transport.calls)
	})

	t.Run("Deve esgotar o orçamento quando a conexão nunca volta", func(t *testing.T) {
		c := newTestClient(t, "http://localhost:1/")
		transport := &flakyTransport{failures: 100}
		c.httpClient = &http.Client{Transport: transport}

		_, err := c.Send(context.Background(), "GET", "boletos", nil, nil)
		require.Error(t, err)
		assert.Equal(t, 3, transport.calls)

		var maxErr *MaxAttemptsError
		require.ErrorAs(t, err, &maxErr)
		assert.Equal(t, 3, maxErr.Attempts)

		var connErr *ConnectivityError
		assert.ErrorAs(t, maxErr.Last, &connErr)
	})
}

func TestSend_RetentaNossoNumeroDuplicado(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		if calls <= 2 {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"erros":[{"codigo":"4874915","textoMensagem":"Nosso Número já incluído anteriormente."}]}`))
			return
		}
		w.Write([]byte(`{"numero":"ok"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL+"/")

	resp, err := c.Send(context.Background(), "POST", "boletos", nil, map[string]interface{}{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, "ok", resp.Data["numero"])
}

func TestSend_OutroErroNaoRetentado(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"erros":[{"codigo":"123","textoMensagem":"Campo inválido"}]}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL+"/")

	_, err := c.Send(context.Background(), "POST", "boletos", nil, nil)
	require.Error(t, err)
	assert.Equal(t, 1, calls, "erro não-retentável deve abortar imediatamente")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Campo inválido", apiErr.Message)
}

func TestSend_FalhaDeAutenticacaoNaoChegaAoTransporte(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("transporte não deveria ser chamado")
	}))
	defer server.Close()

	c := newTestClient(t, server.URL+"/")
	c.auth = &stubAuth{err: errors.New("credenciais inválidas")}

	_, err := c.Send(context.Background(), "GET", "boletos", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credenciais inválidas")
}

func TestSendFunc_RegeneraCorpoPorTentativa(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		if calls < 3 {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"erros":[{"codigo":"4874915","textoMensagem":"duplicado"}]}`))
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL+"/")

	var tentativas []int
	_, err := c.SendFunc(context.Background(), "POST", "boletos", nil, func(tentativa int) (interface{}, error) {
		tentativas = append(tentativas, tentativa)
		return map[string]interface{}{"tentativa": tentativa}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, tentativas)
}

func TestParseAPIError_Precedencia(t *testing.T) {
	tests := []struct {
		nome     string
		body     string
		mensagem string
		codigo   string
	}{
		{
			nome:     "formato primário com textoMensagem",
			body:     `{"erros":[{"codigo":"4874915","textoMensagem":"Nosso Número já incluído"}]}`,
			mensagem: "Nosso Número já incluído",
			codigo:   "4874915",
		},
		{
			nome:     "formato primário com mensagem",
			body:     `{"erros":[{"codigo":7,"mensagem":"Convênio inválido"}]}`,
			mensagem: "Convênio inválido",
			codigo:   "7",
		},
		{
			nome:     "formato alternativo errors",
			body:     `{"errors":[{"message":"Invalid request"}]}`,
			mensagem: "Invalid request",
		},
		{
			nome:     "mensagem de topo",
			body:     `{"message":"Service unavailable"}`,
			mensagem: "Service unavailable",
		},
		{
			nome:     "corpo não-JSON",
			body:     `gateway timeout`,
			mensagem: "gateway timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.nome, func(t *testing.T) {
			apiErr := parseAPIError(500, []byte(tt.body))
			assert.Equal(t, tt.mensagem, apiErr.Message)
			if tt.codigo != "" {
				assert.True(t, apiErr.HasCodigo(tt.codigo))
			}
		})
	}
}

func TestIsConnectivityError(t *testing.T) {
	assert.True(t, isConnectivityError(&net.OpError{Op: "dial", Err: errors.New("refused")}))
	assert.True(t, isConnectivityError(&net.DNSError{Err: "no such host", Name: "api.bb.com.br"}))
	assert.True(t, isConnectivityError(&url.Error{Op: "Get", URL: "http://x", Err: errors.New("connection refused")}))
	assert.False(t, isConnectivityError(errors.New("unexpected EOF")))
}
