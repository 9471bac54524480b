package boleto

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var ufsValidas = map[string]bool{
	"AC": true, "AL": true, "AP": true, "AM": true, "BA": true, "CE": true,
	"DF": true, "ES": true, "GO": true, "MA": true, "MT": true, "MS": true,
	"MG": true, "PA": true, "PB": true, "PR": true, "PE": true, "PI": true,
	"RJ": true, "RN": true, "RS": true, "RO": true, "RR": true, "SC": true,
	"SP": true, "SE": true, "TO": true,
}

// Validator valida os dados de boletos antes do envio ao banco.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// ValidarNovoBoleto verifica os campos obrigatórios e invariantes de um
// boleto a registrar. Falha rápido com o primeiro campo inválido, antes de
// qualquer chamada de rede.
func (v *Validator) ValidarNovoBoleto(dados NovoBoleto) error {
	// 1. Valor positivo
	if dados.ValorOriginal <= 0 {
		return &ValidationError{Campo: "valorOriginal", Mensagem: "o valor do boleto deve ser maior que zero"}
	}

	// 2. Vencimento hoje ou futuro. A comparação é por data de calendário no
	// fuso do vencimento: truncar o instante cairia na meia-noite UTC e
	// rejeitaria "hoje" em fusos a leste (ou no UTC-3 à noite).
	if dados.DataVencimento.IsZero() {
		return &ValidationError{Campo: "dataVencimento", Mensagem: "campo obrigatório não informado"}
	}
	agora := time.Now().In(dados.DataVencimento.Location())
	hoje := time.Date(agora.Year(), agora.Month(), agora.Day(), 0, 0, 0, 0, agora.Location())
	if dados.DataVencimento.Before(hoje) {
		return &ValidationError{Campo: "dataVencimento", Mensagem: "a data de vencimento não pode ser anterior à data atual"}
	}

	// 3. Bloco do pagador
	return v.validarPagador(dados.Pagador)
}

func (v *Validator) validarPagador(pagador Pagador) error {
	// Campos obrigatórios via tags da struct; o primeiro erro nomeia o campo
	if err := v.validate.Struct(pagador); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return &ValidationError{
				Campo:    "pagador." + jsonFieldName(errs[0].Field()),
				Mensagem: "campo obrigatório não informado ou inválido",
			}
		}
		return &ValidationError{Campo: "pagador", Mensagem: err.Error()}
	}

	// Dígitos verificadores conforme o tipo de inscrição
	numero := SomenteDigitos(pagador.NumeroInscricao)
	switch pagador.TipoInscricao {
	case 1:
		if !ValidarCPF(numero) {
			return &ValidationError{Campo: "pagador.numeroInscricao", Mensagem: "CPF do pagador inválido"}
		}
	case 2:
		if !ValidarCNPJ(numero) {
			return &ValidationError{Campo: "pagador.numeroInscricao", Mensagem: "CNPJ do pagador inválido"}
		}
	}

	if len(SomenteDigitos(pagador.CEP)) != 8 {
		return &ValidationError{Campo: "pagador.cep", Mensagem: "CEP inválido"}
	}

	if !ufsValidas[pagador.UF] {
		return &ValidationError{Campo: "pagador.uf", Mensagem: "UF inválida"}
	}

	return nil
}

// jsonFieldName traduz o nome Go do campo para o nome da API.
func jsonFieldName(field string) string {
	switch field {
	case "TipoInscricao":
		return "tipoInscricao"
	case "NumeroInscricao":
		return "numeroInscricao"
	case "Nome":
		return "nome"
	case "Endereco":
		return "endereco"
	case "CEP":
		return "cep"
	case "Cidade":
		return "cidade"
	case "Bairro":
		return "bairro"
	case "UF":
		return "uf"
	}
	return field
}

// ValidarCPF valida um CPF pelos dois dígitos verificadores módulo 11.
func ValidarCPF(cpf string) bool {
	cpf = SomenteDigitos(cpf)
	if len(cpf) != 11 {
		return false
	}
	if todosIguais(cpf) {
		return false
	}

	// Primeiro dígito verificador (pesos 10..2)
	soma := 0
	for i := 0; i < 9; i++ {
		soma += int(cpf[i]-'0') * (10 - i)
	}
	if int(cpf[9]-'0') != digitoVerificador(soma) {
		return false
	}

	// Segundo dígito verificador (pesos 11..2)
	soma = 0
	for i := 0; i < 10; i++ {
		soma += int(cpf[i]-'0') * (11 - i)
	}
	return int(cpf[10]-'0') == digitoVerificador(soma)
}

// ValidarCNPJ valida um CNPJ pelos dois dígitos verificadores módulo 11.
func ValidarCNPJ(cnpj string) bool {
	cnpj = SomenteDigitos(cnpj)
	if len(cnpj) != 14 {
		return false
	}
	if todosIguais(cnpj) {
		return false
	}

	// Primeiro dígito verificador (pesos 5,4,3,2,9,8,...,2)
	soma := 0
	multiplicador := 5
	for i := 0; i < 12; i++ {
		soma += int(cnpj[i]-'0') * multiplicador
		if multiplicador == 2 {
			multiplicador = 9
		} else {
			multiplicador--
		}
	}
	if int(cnpj[12]-'0') != digitoVerificador(soma) {
		return false
	}

	// Segundo dígito verificador (pesos 6,5,4,3,2,9,8,...,2)
	soma = 0
	multiplicador = 6
	for i := 0; i < 13; i++ {
		soma += int(cnpj[i]-'0') * multiplicador
		if multiplicador == 2 {
			multiplicador = 9
		} else {
			multiplicador--
		}
	}
	return int(cnpj[13]-'0') == digitoVerificador(soma)
}

// ValidarDocumento valida CPF ou CNPJ conforme o tamanho.
func ValidarDocumento(documento string) bool {
	documento = SomenteDigitos(documento)
	switch len(documento) {
	case 11:
		return ValidarCPF(documento)
	case 14:
		return ValidarCNPJ(documento)
	}
	return false
}

func digitoVerificador(soma int) int {
	resto := soma % 11
	if resto < 2 {
		return 0
	}
	return 11 - resto
}

func todosIguais(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
