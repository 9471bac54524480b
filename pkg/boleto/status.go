package boleto

import "fmt"

// Status normalizado de pagamento.
const (
	StatusPago    = "PAID"
	StatusNaoPago = "NOT_PAID"
)

// StatusPagamento é o resultado normalizado da consulta de pagamento.
type StatusPagamento struct {
	Status           string
	Pago             bool
	CodigoEstado     int
	DescricaoEstado  string
	CodigoLiquidacao int
	TipoLiquidacao   string
	DataPagamento    string
	ValorPago        float64
	ValorCredito     float64

	// Raw preserva a resposta completa do banco.
	Raw map[string]interface{}
}

// Tabela de estados do título (codigoEstadoTituloCobranca).
// Os estados 18 e 19 são pagamentos parciais e deliberadamente NÃO contam
// como pagos: o valor recebido pode ser inferior ao valor do título.
var estadosTitulo = map[int]string{
	1:  "Normal",
	2:  "Movimento cartório",
	3:  "Em cartório",
	4:  "Título com ocorrência de cartório",
	5:  "Protestado eletrônico",
	6:  "Liquidado",
	7:  "Baixado",
	8:  "Título com pendência de cartório",
	9:  "Título protestado manual",
	10: "Título baixado/pago em cartório",
	11: "Título liquidado/protestado",
	12: "Título liquidado/pago",
	13: "Título protestado aguardando baixa",
	14: "Título em liquidação",
	15: "Título agendado",
	16: "Título creditado",
	17: "Pago em cheque - aguardando liquidação",
	18: "Pago parcialmente",
	19: "Pago parcialmente creditado",
	21: "Título agendado COMPE",
	80: "Em processamento",
}

// Estados que caracterizam pagamento efetivado.
var estadosPagos = map[int]bool{
	6:  true,
	10: true,
	11: true,
	12: true,
	16: true,
	17: true,
}

// Tabela de tipos de liquidação (codigoTipoLiquidacao).
var tiposLiquidacao = map[int]string{
	1: "Caixa",
	2: "Via COMPE",
	3: "Em cartório",
	4: "PIX",
	5: "Título em liquidação - origem agência",
	6: "Título em liquidação - PGT",
	7: "Banco postal",
	8: "Título liquidado via COMPE/STR",
}

// DescricaoEstado retorna a descrição do estado do título; códigos fora da
// tabela retornam uma descrição de desconhecido com o código bruto.
func DescricaoEstado(codigo int) string {
	if desc, ok := estadosTitulo[codigo]; ok {
		return desc
	}
	return fmt.Sprintf("Estado desconhecido (%d)", codigo)
}

// DescricaoLiquidacao retorna a descrição do tipo de liquidação.
func DescricaoLiquidacao(codigo int) string {
	if codigo == 0 {
		return ""
	}
	if desc, ok := tiposLiquidacao[codigo]; ok {
		return desc
	}
	return fmt.Sprintf("Tipo de liquidação desconhecido (%d)", codigo)
}

// mapearStatus normaliza o detalhe do boleto em um status de pagamento.
func mapearStatus(det *DetalheBoleto) *StatusPagamento {
	codigo := det.CodigoEstadoTituloCobranca
	pago := estadosPagos[codigo]

	status := StatusNaoPago
	if pago {
		status = StatusPago
	}

	descricao := DescricaoEstado(codigo)
	if codigo == 18 || codigo == 19 {
		descricao += " (não considerado pago)"
	}

	return &StatusPagamento{
		Status:           status,
		Pago:             pago,
		CodigoEstado:     codigo,
		DescricaoEstado:  descricao,
		CodigoLiquidacao: det.CodigoTipoLiquidacao,
		TipoLiquidacao:   DescricaoLiquidacao(det.CodigoTipoLiquidacao),
		DataPagamento:    det.DataRecebimentoTitulo,
		ValorPago:        det.ValorPagoSacado,
		ValorCredito:     det.ValorCreditoCedente,
		Raw:              det.Raw,
	}
}
