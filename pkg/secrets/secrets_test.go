package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSecrets struct {
	valor *string
	err   error
	gotID string
}

func (m *mockSecrets) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	m.gotID = *params.SecretId
	if m.err != nil {
		return nil, m.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: m.valor}, nil
}

type mockSSM struct {
	valor *string
	err   error
}

func (m *mockSSM) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &ssm.GetParameterOutput{Parameter: &ssmtypes.Parameter{Value: m.valor}}, nil
}

func strPtr(s string) *string { return &s }

func TestLoadCredentialsInternal(t *testing.T) {
	t.Run("Deve mapear o JSON do segredo", func(t *testing.T) {
		mock := &mockSecrets{valor: strPtr(`{
			"client_id": "cliente",
			"client_secret": "segredo",
			"developer_key": "chave"
		}`)}

		creds, err := loadCredentialsInternal(context.Background(), mock, "bb/cobranca/credentials")
		require.NoError(t, err)
		assert.Equal(t, "bb/cobranca/credentials", mock.gotID)
		assert.Equal(t, "cliente", creds.ClientID)
		assert.Equal(t, "segredo", creds.ClientSecret)
		assert.Equal(t, "chave", creds.DeveloperKey)
	})

	t.Run("Segredo sem client_id é erro", func(t *testing.T) {
		mock := &mockSecrets{valor: strPtr(`{"developer_key": "chave"}`)}
		_, err := loadCredentialsInternal(context.Background(), mock, "id")
		assert.Error(t, err)
	})

	t.Run("Segredo binário é erro", func(t *testing.T) {
		mock := &mockSecrets{}
		_, err := loadCredentialsInternal(context.Background(), mock, "id")
		assert.Error(t, err)
	})

	t.Run("Falha da AWS é propagada", func(t *testing.T) {
		mock := &mockSecrets{err: errors.New("acesso negado")}
		_, err := loadCredentialsInternal(context.Background(), mock, "id")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SecretsManager")
	})
}

func TestLoadParameterInternal(t *testing.T) {
	t.Run("Deve retornar o valor do parâmetro", func(t *testing.T) {
		mock := &mockSSM{valor: strPtr("3128557")}
		valor, err := loadParameterInternal(context.Background(), mock, "/bb/convenio", true)
		require.NoError(t, err)
		assert.Equal(t, "3128557", valor)
	})

	t.Run("Parâmetro sem valor é erro", func(t *testing.T) {
		mock := &mockSSM{}
		_, err := loadParameterInternal(context.Background(), mock, "/bb/convenio", false)
		assert.Error(t, err)
	})

	t.Run("Falha da AWS é propagada", func(t *testing.T) {
		mock := &mockSSM{err: errors.New("throttled")}
		_, err := loadParameterInternal(context.Background(), mock, "/bb/convenio", false)
		assert.Error(t, err)
	})
}
