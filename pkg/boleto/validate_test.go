package boleto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pagadorValido() Pagador {
	return Pagador{
		TipoInscricao:   1,
		NumeroInscricao: "96050176876",
		Nome:            "João da Silva",
		Endereco:        "Rua Teste, 100",
		CEP:             "01310-100",
		Cidade:          "São Paulo",
		Bairro:          "Bela Vista",
		UF:              "SP",
	}
}

func TestValidarCPF(t *testing.T) {
	validos := []string{
		"96050176876",
		"960.501.768-76",
		"11144477735",
	}
	for _, cpf := range validos {
		assert.True(t, ValidarCPF(cpf), "CPF %s deveria ser válido", cpf)
	}

	t.Run("Deve rejeitar mutação de um único dígito", func(t *testing.T) {
		base := "96050176876"
		for i := 0; i < len(base); i++ {
			mutado := []byte(base)
			mutado[i] = '0' + (mutado[i]-'0'+1)%10
			assert.False(t, ValidarCPF(string(mutado)), "mutação na posição %d deveria invalidar", i)
		}
	})

	invalidos := []string{
		"",
		"123",
		"11111111111",
		"00000000000",
		"9605017687",
		"960501768761",
	}
	for _, cpf := range invalidos {
		assert.False(t, ValidarCPF(cpf), "CPF %q deveria ser inválido", cpf)
	}
}

func TestValidarCNPJ(t *testing.T) {
	validos := []string{
		"11444777000161",
		"11.444.777/0001-61",
		"00000000000191",
	}
	for _, cnpj := range validos {
		assert.True(t, ValidarCNPJ(cnpj), "CNPJ %s deveria ser válido", cnpj)
	}

	t.Run("Deve rejeitar mutação de um único dígito", func(t *testing.T) {
		base := "11444777000161"
		for i := 0; i < len(base); i++ {
			mutado := []byte(base)
			mutado[i] = '0' + (mutado[i]-'0'+1)%10
			assert.False(t, ValidarCNPJ(string(mutado)), "mutação na posição %d deveria invalidar", i)
		}
	})

	invalidos := []string{
		"",
		"11111111111111",
		"1144477700016",
		"114447770001611",
	}
	for _, cnpj := range invalidos {
		assert.False(t, ValidarCNPJ(cnpj), "CNPJ %q deveria ser inválido", cnpj)
	}
}

func TestValidarDocumento(t *testing.T) {
	assert.True(t, ValidarDocumento("960.501.768-76"))
	assert.True(t, ValidarDocumento("11.444.777/0001-61"))
	assert.False(t, ValidarDocumento("12345"))
	assert.False(t, ValidarDocumento(""))
}

func TestValidarNovoBoleto(t *testing.T) {
	v := NewValidator()

	valido := func() NovoBoleto {
		return NovoBoleto{
			ValorOriginal:  100.0,
			DataVencimento: time.Now().AddDate(0, 0, 5),
			Pagador:        pagadorValido(),
		}
	}

	t.Run("Deve aceitar boleto válido", func(t *testing.T) {
		assert.NoError(t, v.ValidarNovoBoleto(valido()))
	})

	t.Run("Deve rejeitar valor não positivo", func(t *testing.T) {
		dados := valido()
		dados.ValorOriginal = -5
		err := v.ValidarNovoBoleto(dados)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "valorOriginal", vErr.Campo)
	})

	t.Run("Deve rejeitar vencimento ausente", func(t *testing.T) {
		dados := valido()
		dados.DataVencimento = time.Time{}
		err := v.ValidarNovoBoleto(dados)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "dataVencimento", vErr.Campo)
	})

	t.Run("Deve aceitar vencimento hoje à meia-noite em qualquer fuso", func(t *testing.T) {
		fusos := []*time.Location{
			time.UTC,
			time.FixedZone("UTC+2", 2*60*60),
			time.FixedZone("UTC-3", -3*60*60),
		}
		for _, fuso := range fusos {
			agora := time.Now().In(fuso)
			dados := valido()
			dados.DataVencimento = time.Date(agora.Year(), agora.Month(), agora.Day(), 0, 0, 0, 0, fuso)
			assert.NoError(t, v.ValidarNovoBoleto(dados), "vencimento hoje em %s deveria ser aceito", fuso)
		}
	})

	t.Run("Deve rejeitar vencimento no passado", func(t *testing.T) {
		dados := valido()
		dados.DataVencimento = time.Now().AddDate(0, 0, -2)
		err := v.ValidarNovoBoleto(dados)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "dataVencimento", vErr.Campo)
	})

	t.Run("Deve rejeitar CPF com dígito verificador errado", func(t *testing.T) {
		dados := valido()
		dados.Pagador.NumeroInscricao = "96050176877"
		err := v.ValidarNovoBoleto(dados)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "pagador.numeroInscricao", vErr.Campo)
		assert.Contains(t, vErr.Mensagem, "CPF")
	})

	t.Run("Deve validar CNPJ quando tipoInscricao é 2", func(t *testing.T) {
		dados := valido()
		dados.Pagador.TipoInscricao = 2
		dados.Pagador.NumeroInscricao = "11444777000161"
		assert.NoError(t, v.ValidarNovoBoleto(dados))

		dados.Pagador.NumeroInscricao = "11444777000162"
		err := v.ValidarNovoBoleto(dados)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Mensagem, "CNPJ")
	})

	t.Run("Deve rejeitar campo obrigatório ausente no pagador", func(t *testing.T) {
		dados := valido()
		dados.Pagador.Nome = ""
		err := v.ValidarNovoBoleto(dados)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "pagador.nome", vErr.Campo)
	})

	t.Run("Deve rejeitar CEP inválido", func(t *testing.T) {
		dados := valido()
		dados.Pagador.CEP = "1310"
		err := v.ValidarNovoBoleto(dados)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "pagador.cep", vErr.Campo)
	})

	t.Run("Deve rejeitar UF inexistente", func(t *testing.T) {
		dados := valido()
		dados.Pagador.UF = "XX"
		err := v.ValidarNovoBoleto(dados)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "pagador.uf", vErr.Campo)
	})
}
