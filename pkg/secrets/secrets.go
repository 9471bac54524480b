package secrets

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/wandersonbarradas/bb-cobranca/pkg/config"
)

// Interfaces para abstrair o SDK da AWS (Permite Mocking)
type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// GetAWSConfig resolve a configuração AWS para a região informada.
func GetAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("erro ao carregar configuração AWS: %w", err)
	}
	return cfg, nil
}

// LoadCredentials: wrapper público que inicializa o client real.
func LoadCredentials(ctx context.Context, region, secretID string) (*config.CredentialsConf, error) {
	cfg, err := GetAWSConfig(ctx, region)
	if err != nil {
		return nil, err
	}
	return loadCredentialsInternal(ctx, secretsmanager.NewFromConfig(cfg), secretID)
}

// loadCredentialsInternal: lógica pura testável via Mock. O segredo é um
// JSON com client_id, client_secret e developer_key.
func loadCredentialsInternal(ctx context.Context, client SecretsClient, secretID string) (*config.CredentialsConf, error) {
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &secretID,
	})
	if err != nil {
		return nil, fmt.Errorf("erro no SecretsManager: %w", err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("segredo %s sem conteúdo textual", secretID)
	}

	var creds struct {
		ClientID     string `json:"client_id"`
		ClientSecret string `json:"client_secret"`
		DeveloperKey string `json:"developer_key"`
	}
	if err := json.Unmarshal([]byte(*out.SecretString), &creds); err != nil {
		return nil, fmt.Errorf("erro ao interpretar segredo: %w", err)
	}

	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("segredo %s sem client_id/client_secret", secretID)
	}

	return &config.CredentialsConf{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		DeveloperKey: creds.DeveloperKey,
	}, nil
}

// LoadParameter: wrapper público para o Parameter Store.
func LoadParameter(ctx context.Context, region, path string, decrypt bool) (string, error) {
	cfg, err := GetAWSConfig(ctx, region)
	if err != nil {
		return "", err
	}
	return loadParameterInternal(ctx, ssm.NewFromConfig(cfg), path, decrypt)
}

// loadParameterInternal: lógica pura testável via Mock.
func loadParameterInternal(ctx context.Context, client SSMClient, path string, decrypt bool) (string, error) {
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &path,
		WithDecryption: &decrypt,
	})
	if err != nil {
		return "", fmt.Errorf("erro no SSM GetParameter: %w", err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("parâmetro %s sem valor", path)
	}
	return *out.Parameter.Value, nil
}
