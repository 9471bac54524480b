// Package bbcobranca é um cliente Go para a API de cobrança (boletos) do
// Banco do Brasil: autenticação OAuth2 client credentials com cache de
// tokens, execução resiliente de requisições com retentativas, operações de
// registro/consulta/baixa/alteração de boletos e interpretação dos códigos
// de estado do título em status de pagamento.
//
// Visão Geral:
//
// 1. config: Carregamento de configuração via YAML e variáveis de ambiente,
// validada com go-playground/validator.
//
// 2. token: Cache de tokens (memória, arquivo ou Redis) e Authenticator com
// margem de segurança de expiração de 5 minutos.
//
// 3. client: Executor resiliente; retenta erros de conexão e o código
// 4874915 ("Nosso Número já incluído") com pausa fixa entre tentativas.
//
// 4. boleto: Operações de cobrança, validação de CPF/CNPJ, formatação de
// valores e datas no padrão do banco e tabelas de estado de pagamento.
//
// 5. pdf: Interface com o renderizador externo de boletos e gravação do
// resultado em disco ou S3.
//
// Exemplo de Início Rápido:
//
//	cfg, err := config.FromEnv()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cliente, err := bbcobranca.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	criado, err := cliente.Boletos.CriarBoleto(ctx, boleto.NovoBoleto{
//		ValorOriginal:  100.00,
//		DataVencimento: time.Now().AddDate(0, 0, 5),
//		Pagador: boleto.Pagador{
//			TipoInscricao:   1,
//			NumeroInscricao: "96050176876",
//			Nome:            "Fulano de Tal",
//			Endereco:        "Rua das Flores, 100",
//			CEP:             "01310100",
//			Cidade:          "São Paulo",
//			Bairro:          "Bela Vista",
//			UF:              "SP",
//		},
//	})
package bbcobranca
