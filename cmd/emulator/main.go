// Emulador local da API de cobrança para desenvolvimento e exemplos.
// Sobe os endpoints de token OAuth e de boletos em memória, reproduzindo
// inclusive o erro 4874915 de Nosso Número duplicado.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type boletoRegistrado struct {
	NumeroTituloCliente string
	Dados               map[string]interface{}
	EstadoTitulo        int
	Baixado             bool
}

type emulador struct {
	mu      sync.Mutex
	boletos map[string]*boletoRegistrado
	log     zerolog.Logger
}

func main() {
	porta := os.Getenv("EMULATOR_PORT")
	if porta == "" {
		porta = "8787"
	}

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := run(porta, log); err != nil {
		log.Fatal().Err(err).Msg("emulador encerrou com erro")
	}
}

// run contém a lógica de orquestração
func run(porta string, log zerolog.Logger) error {
	emu := &emulador{
		boletos: make(map[string]*boletoRegistrado),
		log:     log,
	}

	router := mux.NewRouter()
	router.HandleFunc("/oauth/token", emu.token).Methods(http.MethodPost)

	api := router.PathPrefix("/cobrancas/v2").Subrouter()
	api.HandleFunc("/boletos", emu.criar).Methods(http.MethodPost)
	api.HandleFunc("/boletos", emu.listar).Methods(http.MethodGet)
	api.HandleFunc("/boletos/{id}", emu.obter).Methods(http.MethodGet)
	api.HandleFunc("/boletos/{id}", emu.alterar).Methods(http.MethodPatch)
	api.HandleFunc("/boletos/{id}/baixar", emu.baixar).Methods(http.MethodPost)

	log.Info().Str("porta", porta).Msg("emulador de cobrança no ar")
	return http.ListenAndServe(":"+porta, router)
}

func (e *emulador) token(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"error":             "invalid_client",
			"error_description": "credenciais ausentes",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": fmt.Sprintf("emulador-%d", time.Now().UnixNano()),
		"token_type":   "Bearer",
		"expires_in":   600,
	})
}

func (e *emulador) criar(w http.ResponseWriter, r *http.Request) {
	var dados map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&dados); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": "corpo inválido"})
		return
	}

	numero, _ := dados["numeroTituloCliente"].(string)
	if numero == "" {
		writeErro(w, http.StatusBadRequest, "0", "numeroTituloCliente obrigatório")
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Reproduz a colisão de Nosso Número
	if _, existe := e.boletos[numero]; existe {
		writeErro(w, http.StatusConflict, "4874915", "Nosso Número já incluído anteriormente.")
		return
	}

	e.boletos[numero] = &boletoRegistrado{
		NumeroTituloCliente: numero,
		Dados:               dados,
		EstadoTitulo:        1,
	}

	e.log.Info().Str("numero", numero).Msg("boleto registrado")

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"numero":                 numero,
		"numeroCarteira":         17,
		"numeroVariacaoCarteira": 35,
		"codigoCliente":          932074252,
		"linhaDigitavel":         "00190000090339069600000009279171899240000010000",
		"codigoBarraNumerico":    "00198992400000100000000003390696000000927917",
		"numeroContratoCobranca": 19940044,
		"qrCode": map[string]interface{}{
			"url":  "https://qrcodepix.bb.com.br/pix/v2/cobv/emulado",
			"txId": numero,
			"emv":  "00020101021226890014br.gov.bcb.pix2567emulado",
		},
	})
}

func (e *emulador) listar(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("indicadorSituacao") == "" {
		writeErro(w, http.StatusBadRequest, "0", "indicadorSituacao obrigatório")
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	lista := make([]map[string]interface{}, 0, len(e.boletos))
	for numero, b := range e.boletos {
		lista = append(lista, map[string]interface{}{
			"numeroBoletoBB":             numero,
			"valorOriginal":              b.Dados["valorOriginal"],
			"dataVencimento":             b.Dados["dataVencimento"],
			"codigoEstadoTituloCobranca": b.EstadoTitulo,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"indicadorContinuidade": "N",
		"quantidadeRegistros":   len(lista),
		"proximoIndice":         0,
		"boletos":               lista,
	})
}

func (e *emulador) obter(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	e.mu.Lock()
	b, existe := e.boletos[id]
	e.mu.Unlock()

	if !existe {
		writeErro(w, http.StatusNotFound, "0", "Boleto não encontrado")
		return
	}

	// Representação em PDF
	if r.URL.Query().Get("formato") == "pdf" {
		w.Header().Set("Content-Type", "application/pdf")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "%%PDF-1.4 emulado %s", id)
		return
	}

	estado := b.EstadoTitulo
	if b.Baixado {
		estado = 7
	}

	valor := 0.0
	if s, ok := b.Dados["valorOriginal"].(string); ok {
		valor, _ = strconv.ParseFloat(s, 64)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"codigoEstadoTituloCobranca":      estado,
		"codigoTipoLiquidacao":            0,
		"dataRecebimentoTitulo":           "",
		"dataVencimentoTituloCobranca":    b.Dados["dataVencimento"],
		"valorOriginalTituloCobranca":     valor,
		"valorPagoSacado":                 0.0,
		"valorCreditoCedente":             0.0,
		"numeroTituloCedenteCobranca":     id,
		"codigoLinhaDigitavel":            "00190000090339069600000009279171899240000010000",
		"textoCodigoBarrasTituloCobranca": "00198992400000100000000003390696000000927917",
		"nomeSacadoCobranca":              nomePagador(b.Dados),
	})
}

func (e *emulador) alterar(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var dados map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&dados); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": "corpo inválido"})
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	b, existe := e.boletos[id]
	if !existe {
		writeErro(w, http.StatusNotFound, "0", "Boleto não encontrado")
		return
	}

	for k, v := range dados {
		b.Dados[k] = v
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"numero": id})
}

func (e *emulador) baixar(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	e.mu.Lock()
	defer e.mu.Unlock()

	b, existe := e.boletos[id]
	if !existe {
		writeErro(w, http.StatusNotFound, "0", "Boleto não encontrado")
		return
	}

	b.Baixado = true
	agora := time.Now()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"numeroContratoCobranca": 19940044,
		"dataBaixa":              agora.Format("02.01.2006"),
		"horarioBaixa":           agora.Format("15:04:05"),
	})
}

func nomePagador(dados map[string]interface{}) string {
	pagador, ok := dados["pagador"].(map[string]interface{})
	if !ok {
		return ""
	}
	nome, _ := pagador["nome"].(string)
	return nome
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeErro(w http.ResponseWriter, status int, codigo, mensagem string) {
	writeJSON(w, status, map[string]interface{}{
		"erros": []map[string]interface{}{
			{"codigo": codigo, "textoMensagem": mensagem},
		},
	})
}
