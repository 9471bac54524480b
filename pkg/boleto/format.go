package boleto

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var naoDigitos = regexp.MustCompile(`[^0-9]`)

// FormatarValor formata o valor monetário no padrão da API:
// duas casas decimais e ponto como separador.
func FormatarValor(valor float64) string {
	return strconv.FormatFloat(valor, 'f', 2, 64)
}

// FormatarData formata a data no padrão da API (DD.MM.YYYY).
func FormatarData(data time.Time) string {
	return data.Format("02.01.2006")
}

// SomenteDigitos remove tudo que não for dígito.
func SomenteDigitos(s string) string {
	return naoDigitos.ReplaceAllString(s, "")
}

// FormatarCEP aplica a máscara XXXXX-XXX.
func FormatarCEP(cep string) string {
	cep = SomenteDigitos(cep)
	if len(cep) == 8 {
		return cep[:5] + "-" + cep[5:]
	}
	return cep
}

// FormatarTelefone aplica a máscara de telefone fixo ou celular.
func FormatarTelefone(telefone string) string {
	telefone = SomenteDigitos(telefone)
	switch len(telefone) {
	case 10:
		return "(" + telefone[:2] + ") " + telefone[2:6] + "-" + telefone[6:]
	case 11:
		return "(" + telefone[:2] + ") " + telefone[2:7] + "-" + telefone[7:]
	}
	return telefone
}

// GerarNumeroTituloCliente gera o identificador de título no padrão do BB:
// "000" + convênio + 10 dígitos. O sufixo nunca começa com zero e varia a
// cada chamada; colisões entre chamadores concorrentes são reportadas pelo
// próprio banco e retentadas com um novo número.
func GerarNumeroTituloCliente(convenio string) string {
	return "000" + convenio + gerarNumeroAleatorio(10)
}

func gerarNumeroAleatorio(digitos int) string {
	var sb strings.Builder
	sb.Grow(digitos)

	// Garante que o primeiro dígito não seja zero
	sb.WriteByte(byte('1' + rand.IntN(9)))
	for i := 1; i < digitos; i++ {
		sb.WriteByte(byte('0' + rand.IntN(10)))
	}

	return sb.String()
}
