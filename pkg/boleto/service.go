package boleto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wandersonbarradas/bb-cobranca/pkg/client"
	"github.com/wandersonbarradas/bb-cobranca/pkg/config"
)

// Sender é o contrato do executor de requisições. Em testes é substituído
// por um stub que conta e inspeciona tentativas.
type Sender interface {
	Send(ctx context.Context, method, endpoint string, query url.Values, body interface{}) (*client.Response, error)
	SendFunc(ctx context.Context, method, endpoint string, query url.Values, bodyFn client.BodyFunc) (*client.Response, error)
}

// Service expõe as operações de cobrança do convênio.
type Service struct {
	api       Sender
	cfg       *config.Config
	validator *Validator
	log       zerolog.Logger

	// agora é substituível em testes (dataEmissao determinística)
	agora func() time.Time
}

// NewService monta o serviço de boletos.
func NewService(api Sender, cfg *config.Config, log zerolog.Logger) *Service {
	return &Service{
		api:       api,
		cfg:       cfg,
		validator: NewValidator(),
		log:       log,
		agora:     time.Now,
	}
}

// camposPadrao são os dados fixos do convênio mesclados sob os dados do
// chamador em todo registro de boleto.
func (s *Service) camposPadrao() map[string]interface{} {
	indicadorPix := "N"
	if s.cfg.Convenio.PagamentoPix {
		indicadorPix = "S"
	}

	return map[string]interface{}{
		"numeroConvenio":                       atoiOrString(s.cfg.Convenio.Numero),
		"numeroCarteira":                       atoiOrString(s.cfg.Convenio.Carteira),
		"numeroVariacaoCarteira":               atoiOrString(s.cfg.Convenio.VariacaoCarteira),
		"codigoModalidade":                     1,
		"dataEmissao":                          FormatarData(s.agora()),
		"indicadorAceiteTituloVencido":         "N",
		"codigoAceite":                         "A",
		"codigoTipoTitulo":                     2,
		"descricaoTipoTitulo":                  "DM",
		"indicadorPermissaoRecebimentoParcial": "N",
		"indicadorPix":                         indicadorPix,
	}
}

// CriarBoleto valida, formata e registra um boleto. Um numeroTituloCliente
// novo é gerado a cada tentativa, de modo que a retentativa do código
// 4874915 use um identificador diferente.
func (s *Service) CriarBoleto(ctx context.Context, dados NovoBoleto) (*Boleto, error) {
	// 1. Validação antes de qualquer chamada de rede
	if err := s.validator.ValidarNovoBoleto(dados); err != nil {
		return nil, err
	}

	// 2. Defaults do convênio sob os dados do chamador
	body := s.camposPadrao()
	body["valorOriginal"] = FormatarValor(dados.ValorOriginal)
	body["dataVencimento"] = FormatarData(dados.DataVencimento)
	body["pagador"] = pagadorParaAPI(dados.Pagador)

	numeroBeneficiario := dados.NumeroTituloBeneficiario
	if numeroBeneficiario == "" {
		numeroBeneficiario = strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	}
	body["numeroTituloBeneficiario"] = numeroBeneficiario

	for k, v := range dados.CamposAdicionais {
		body[k] = v
	}

	// 3. Envia com identificador novo por tentativa
	var numeroTitulo string
	resp, err := s.api.SendFunc(ctx, "POST", "boletos", nil, func(int) (interface{}, error) {
		numeroTitulo = GerarNumeroTituloCliente(s.cfg.Convenio.Numero)
		body["numeroTituloCliente"] = numeroTitulo
		return body, nil
	})
	if err != nil {
		// Orçamento esgotado no erro de duplicidade vira um erro dedicado
		var maxErr *client.MaxAttemptsError
		if errors.As(err, &maxErr) {
			var apiErr *client.APIError
			if errors.As(maxErr.Last, &apiErr) && apiErr.HasCodigo(client.CodigoNossoNumeroDuplicado) {
				return nil, &NumeroUnicoError{Tentativas: maxErr.Attempts, Err: err}
			}
		}
		return nil, err
	}

	var criado Boleto
	if err := json.Unmarshal(resp.Raw, &criado); err != nil {
		return nil, fmt.Errorf("erro ao decodificar boleto criado: %w", err)
	}
	criado.NumeroTituloCliente = numeroTitulo

	return &criado, nil
}

// ListarBoletos lista boletos registrados. Agência e conta caem para os
// valores configurados quando ausentes nos filtros.
func (s *Service) ListarBoletos(ctx context.Context, filtros ListaFiltros) (*ListaBoletos, error) {
	if filtros.IndicadorSituacao == "" {
		return nil, &ValidationError{Campo: "indicadorSituacao", Mensagem: "parâmetro obrigatório"}
	}

	if filtros.AgenciaBeneficiario == 0 {
		filtros.AgenciaBeneficiario = atoiOrZero(s.cfg.Convenio.Agencia)
	}
	if filtros.ContaBeneficiario == 0 {
		filtros.ContaBeneficiario = atoiOrZero(s.cfg.Convenio.Conta)
	}

	if filtros.AgenciaBeneficiario == 0 {
		return nil, &ValidationError{Campo: "agenciaBeneficiario", Mensagem: "parâmetro obrigatório e não configurado"}
	}
	if filtros.ContaBeneficiario == 0 {
		return nil, &ValidationError{Campo: "contaBeneficiario", Mensagem: "parâmetro obrigatório e não configurado"}
	}

	resp, err := s.api.Send(ctx, "GET", "boletos", filtros.toQuery(), nil)
	if err != nil {
		return nil, err
	}

	var lista ListaBoletos
	if err := json.Unmarshal(resp.Raw, &lista); err != nil {
		return nil, fmt.Errorf("erro ao decodificar listagem: %w", err)
	}
	return &lista, nil
}

// ObterBoleto consulta os detalhes de um boleto pelo identificador.
func (s *Service) ObterBoleto(ctx context.Context, id string) (*DetalheBoleto, error) {
	query := url.Values{}
	query.Set("numeroConvenio", s.cfg.Convenio.Numero)

	resp, err := s.api.Send(ctx, "GET", "boletos/"+id, query, nil)
	if err != nil {
		return nil, err
	}

	var detalhe DetalheBoleto
	if err := json.Unmarshal(resp.Raw, &detalhe); err != nil {
		return nil, fmt.Errorf("erro ao decodificar boleto: %w", err)
	}
	detalhe.Raw = resp.Data

	// Revisões da API divergem no nome do campo de valor
	if detalhe.ValorOriginalTituloCobranca == 0 {
		if v, ok := resp.Data["valorOriginal"].(float64); ok {
			detalhe.ValorOriginalTituloCobranca = v
		}
	}

	return &detalhe, nil
}

// ObterPDF obtém a representação em PDF de um boleto.
func (s *Service) ObterPDF(ctx context.Context, id string) ([]byte, error) {
	query := url.Values{}
	query.Set("numeroConvenio", s.cfg.Convenio.Numero)
	query.Set("formato", "pdf")

	resp, err := s.api.Send(ctx, "GET", "boletos/"+id, query, nil)
	if err != nil {
		return nil, err
	}
	if !resp.IsBinary {
		return nil, &client.UnknownError{Err: fmt.Errorf("resposta não é um PDF (content-type %q)", resp.ContentType)}
	}
	return resp.Raw, nil
}

// BaixarBoleto baixa (cancela) um boleto registrado.
func (s *Service) BaixarBoleto(ctx context.Context, id string) (*BaixaBoleto, error) {
	body := map[string]interface{}{
		"numeroConvenio": atoiOrString(s.cfg.Convenio.Numero),
	}

	resp, err := s.api.Send(ctx, "POST", "boletos/"+id+"/baixar", nil, body)
	if err != nil {
		return nil, err
	}

	var baixa BaixaBoleto
	if err := json.Unmarshal(resp.Raw, &baixa); err != nil {
		return nil, fmt.Errorf("erro ao decodificar baixa: %w", err)
	}
	return &baixa, nil
}

// AlterarBoleto altera um boleto registrado, com as mesmas regras de
// formatação de valor e data do registro.
func (s *Service) AlterarBoleto(ctx context.Context, id string, alteracao AlteracaoBoleto) error {
	body := map[string]interface{}{
		"numeroConvenio": atoiOrString(s.cfg.Convenio.Numero),
	}

	if alteracao.ValorOriginal != nil {
		if *alteracao.ValorOriginal <= 0 {
			return &ValidationError{Campo: "valorOriginal", Mensagem: "o valor do boleto deve ser maior que zero"}
		}
		body["valorOriginal"] = FormatarValor(*alteracao.ValorOriginal)
	}
	if alteracao.DataVencimento != nil {
		body["dataVencimento"] = FormatarData(*alteracao.DataVencimento)
	}
	for k, v := range alteracao.CamposAdicionais {
		body[k] = v
	}

	_, err := s.api.Send(ctx, "PATCH", "boletos/"+id, nil, body)
	return err
}

// ConsultarPagamento consulta o boleto e normaliza o estado do título em um
// status de pagamento, usando as tabelas de estado e de liquidação.
func (s *Service) ConsultarPagamento(ctx context.Context, id string) (*StatusPagamento, error) {
	detalhe, err := s.ObterBoleto(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, ok := detalhe.Raw["codigoEstadoTituloCobranca"]; !ok {
		return nil, &client.APIError{
			StatusCode: 200,
			Message:    "resposta do banco sem o campo codigoEstadoTituloCobranca",
		}
	}

	return mapearStatus(detalhe), nil
}

// pagadorParaAPI monta o bloco do pagador no formato da API, com CEP e
// telefone reduzidos a dígitos.
func pagadorParaAPI(p Pagador) map[string]interface{} {
	pagador := map[string]interface{}{
		"tipoInscricao":   p.TipoInscricao,
		"numeroInscricao": atoiOrString(SomenteDigitos(p.NumeroInscricao)),
		"nome":            p.Nome,
		"endereco":        p.Endereco,
		"cep":             atoiOrString(SomenteDigitos(p.CEP)),
		"cidade":          p.Cidade,
		"bairro":          p.Bairro,
		"uf":              p.UF,
	}
	if p.Telefone != "" {
		pagador["telefone"] = SomenteDigitos(p.Telefone)
	}
	return pagador
}

// atoiOrString envia valores numéricos como número, preservando o texto
// quando a conversão não é possível.
func atoiOrString(s string) interface{} {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return s
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
