package boleto

import "fmt"

// ValidationError indica entrada malformada detectada antes de qualquer
// chamada de rede. Nunca é retentado.
type ValidationError struct {
	Campo    string
	Mensagem string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validação falhou no campo '%s': %s", e.Campo, e.Mensagem)
}

// NumeroUnicoError indica que não foi possível registrar o boleto com um
// numeroTituloCliente inédito dentro do orçamento de tentativas.
type NumeroUnicoError struct {
	Tentativas int
	Err        error
}

func (e *NumeroUnicoError) Error() string {
	return fmt.Sprintf("não foi possível gerar um número único para o boleto após %d tentativas", e.Tentativas)
}

func (e *NumeroUnicoError) Unwrap() error { return e.Err }
