package boleto

import (
	"net/url"
	"strconv"
	"time"
)

// Pagador é o sacado do boleto. O numeroInscricao deve passar na validação
// de dígitos verificadores correspondente ao tipoInscricao (1=CPF, 2=CNPJ).
type Pagador struct {
	TipoInscricao   int    `json:"tipoInscricao" validate:"required,oneof=1 2"`
	NumeroInscricao string `json:"numeroInscricao" validate:"required"`
	Nome            string `json:"nome" validate:"required"`
	Endereco        string `json:"endereco" validate:"required"`
	CEP             string `json:"cep" validate:"required"`
	Cidade          string `json:"cidade" validate:"required"`
	Bairro          string `json:"bairro" validate:"required"`
	UF              string `json:"uf" validate:"required"`
	Telefone        string `json:"telefone,omitempty"`
}

// NovoBoleto são os dados de entrada para registro de um boleto.
// Campos não previstos aqui podem ser enviados via CamposAdicionais,
// que são mesclados por último sobre os defaults do convênio.
type NovoBoleto struct {
	ValorOriginal  float64
	DataVencimento time.Time
	Pagador        Pagador

	// Opcionais
	NumeroTituloBeneficiario string
	CamposAdicionais         map[string]interface{}
}

// AlteracaoBoleto são os campos alteráveis via PATCH. Ponteiros nulos
// não são enviados.
type AlteracaoBoleto struct {
	ValorOriginal    *float64
	DataVencimento   *time.Time
	CamposAdicionais map[string]interface{}
}

// Boleto é a resposta do banco ao registro.
type Boleto struct {
	Numero                 string `json:"numero"`
	NumeroCarteira         int    `json:"numeroCarteira"`
	NumeroVariacaoCarteira int    `json:"numeroVariacaoCarteira"`
	CodigoCliente          int64  `json:"codigoCliente"`
	LinhaDigitavel         string `json:"linhaDigitavel"`
	CodigoBarraNumerico    string `json:"codigoBarraNumerico"`
	NumeroContratoCobranca int64  `json:"numeroContratoCobranca"`
	QRCode                 QRCode `json:"qrCode"`

	// Identificador gerado localmente e aceito pelo banco nesta criação.
	NumeroTituloCliente string `json:"-"`
}

type QRCode struct {
	URL  string `json:"url"`
	TxID string `json:"txId"`
	EMV  string `json:"emv"`
}

// DetalheBoleto é a resposta da consulta individual. Além dos campos
// tipados, Raw preserva o payload completo do banco.
type DetalheBoleto struct {
	CodigoEstadoTituloCobranca      int     `json:"codigoEstadoTituloCobranca"`
	CodigoTipoLiquidacao            int     `json:"codigoTipoLiquidacao"`
	DataRecebimentoTitulo           string  `json:"dataRecebimentoTitulo"`
	DataVencimentoTitulo            string  `json:"dataVencimentoTituloCobranca"`
	ValorOriginalTituloCobranca     float64 `json:"valorOriginalTituloCobranca"`
	ValorPagoSacado                 float64 `json:"valorPagoSacado"`
	ValorCreditoCedente             float64 `json:"valorCreditoCedente"`
	NumeroTituloCedenteCobranca     string  `json:"numeroTituloCedenteCobranca"`
	CodigoLinhaDigitavel            string  `json:"codigoLinhaDigitavel"`
	TextoCodigoBarrasTituloCobranca string  `json:"textoCodigoBarrasTituloCobranca"`
	NomeSacadoCobranca              string  `json:"nomeSacadoCobranca"`

	Raw map[string]interface{} `json:"-"`
}

// ResumoBoleto é um item da listagem.
type ResumoBoleto struct {
	NumeroBoletoBB             string  `json:"numeroBoletoBB"`
	DataRegistro               string  `json:"dataRegistro"`
	DataVencimento             string  `json:"dataVencimento"`
	ValorOriginal              float64 `json:"valorOriginal"`
	CarteiraConvenio           int     `json:"carteiraConvenio"`
	VariacaoCarteiraConvenio   int     `json:"variacaoCarteiraConvenio"`
	CodigoEstadoTituloCobranca int     `json:"codigoEstadoTituloCobranca"`
	EstadoTituloCobranca       string  `json:"estadoTituloCobranca"`
	ContratoCobranca           int64   `json:"contratoCobranca"`
}

// ListaBoletos é a resposta da listagem.
type ListaBoletos struct {
	IndicadorContinuidade string         `json:"indicadorContinuidade"`
	QuantidadeRegistros   int            `json:"quantidadeRegistros"`
	ProximoIndice         int            `json:"proximoIndice"`
	Boletos               []ResumoBoleto `json:"boletos"`
}

// BaixaBoleto é a resposta da baixa (cancelamento).
type BaixaBoleto struct {
	NumeroContratoCobranca int64  `json:"numeroContratoCobranca"`
	DataBaixa              string `json:"dataBaixa"`
	HorarioBaixa           string `json:"horarioBaixa"`
}

// ListaFiltros são os filtros da listagem, um campo por parâmetro aceito
// pela API. Campos zerados não são enviados.
type ListaFiltros struct {
	IndicadorSituacao          string
	ContaCaucao                int
	AgenciaBeneficiario        int
	ContaBeneficiario          int
	CarteiraConvenio           int
	VariacaoCarteiraConvenio   int
	ModalidadeCobranca         int
	CNPJPagador                int64
	DigitoCNPJPagador          int
	CPFPagador                 int64
	DigitoCPFPagador           int
	DataInicioVencimento       string
	DataFimVencimento          string
	DataInicioRegistro         string
	DataFimRegistro            string
	DataInicioMovimento        string
	DataFimMovimento           string
	CodigoEstadoTituloCobranca int
	BoletoVencido              string
	Indice                     int
}

// toQuery converte os filtros preenchidos em query parameters.
func (f ListaFiltros) toQuery() url.Values {
	query := url.Values{}

	setStr := func(nome, valor string) {
		if valor != "" {
			query.Set(nome, valor)
		}
	}
	setInt := func(nome string, valor int) {
		if valor != 0 {
			query.Set(nome, strconv.Itoa(valor))
		}
	}
	setInt64 := func(nome string, valor int64) {
		if valor != 0 {
			query.Set(nome, strconv.FormatInt(valor, 10))
		}
	}

	setStr("indicadorSituacao", f.IndicadorSituacao)
	setInt("contaCaucao", f.ContaCaucao)
	setInt("agenciaBeneficiario", f.AgenciaBeneficiario)
	setInt("contaBeneficiario", f.ContaBeneficiario)
	setInt("carteiraConvenio", f.CarteiraConvenio)
	setInt("variacaoCarteiraConvenio", f.VariacaoCarteiraConvenio)
	setInt("modalidadeCobranca", f.ModalidadeCobranca)
	setInt64("cnpjPagador", f.CNPJPagador)
	setInt("digitoCNPJPagador", f.DigitoCNPJPagador)
	setInt64("cpfPagador", f.CPFPagador)
	setInt("digitoCPFPagador", f.DigitoCPFPagador)
	setStr("dataInicioVencimento", f.DataInicioVencimento)
	setStr("dataFimVencimento", f.DataFimVencimento)
	setStr("dataInicioRegistro", f.DataInicioRegistro)
	setStr("dataFimRegistro", f.DataFimRegistro)
	setStr("dataInicioMovimento", f.DataInicioMovimento)
	setStr("dataFimMovimento", f.DataFimMovimento)
	setInt("codigoEstadoTituloCobranca", f.CodigoEstadoTituloCobranca)
	setStr("boletoVencido", f.BoletoVencido)
	setInt("indice", f.Indice)

	return query
}
