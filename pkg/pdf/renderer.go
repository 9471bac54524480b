package pdf

import (
	"context"
	"strconv"

	"github.com/wandersonbarradas/bb-cobranca/pkg/boleto"
	"github.com/wandersonbarradas/bb-cobranca/pkg/config"
)

// Descricao é a entrada estruturada que o renderizador externo consome.
type Descricao struct {
	Valor          float64
	DataVencimento string
	NossoNumero    string
	LinhaDigitavel string
	CodigoBarras   string
	Carteira       string
	Agencia        string
	Conta          string
	Beneficiario   Parte
	Pagador        Parte
	Instrucoes     []string

	// Payload EMV do QR Code PIX, quando o boleto foi emitido com PIX.
	PixEMV string
}

// Parte identifica beneficiário ou pagador no documento.
type Parte struct {
	Nome      string
	Documento string
	Endereco  string
	CEP       string
	Cidade    string
	UF        string
}

// Renderer é o colaborador externo que transforma a descrição em bytes
// de PDF. A renderização em si não é responsabilidade deste módulo.
type Renderer interface {
	Render(ctx context.Context, d Descricao) ([]byte, error)
}

// DescricaoDoBoleto mapeia os campos da consulta de boleto para a entrada
// do renderizador.
func DescricaoDoBoleto(det *boleto.DetalheBoleto, cfg *config.Config, instrucoes []string) Descricao {
	d := Descricao{
		Valor:          det.ValorOriginalTituloCobranca,
		DataVencimento: det.DataVencimentoTitulo,
		NossoNumero:    det.NumeroTituloCedenteCobranca,
		LinhaDigitavel: det.CodigoLinhaDigitavel,
		CodigoBarras:   det.TextoCodigoBarrasTituloCobranca,
		Carteira:       cfg.Convenio.Carteira,
		Agencia:        cfg.Convenio.Agencia,
		Conta:          cfg.Convenio.Conta,
		Pagador: Parte{
			Nome: det.NomeSacadoCobranca,
		},
		Instrucoes: instrucoes,
	}

	// Campos presentes apenas no payload bruto
	if nome, ok := det.Raw["nomeBeneficiario"].(string); ok {
		d.Beneficiario.Nome = nome
	}
	if doc, ok := det.Raw["numeroInscricaoSacadoCobranca"].(float64); ok {
		d.Pagador.Documento = boleto.SomenteDigitos(formatFloatID(doc))
	}
	if emv, ok := det.Raw["qrCode"].(map[string]interface{}); ok {
		if payload, ok := emv["emv"].(string); ok {
			d.PixEMV = payload
		}
	}

	return d
}

// Identificadores numéricos do banco chegam como float64 via JSON.
func formatFloatID(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
