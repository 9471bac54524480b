package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Writer grava o PDF renderizado em algum destino.
type Writer interface {
	Write(ctx context.Context, nome string, data []byte) (string, error)
}

// Gerar renderiza a descrição e grava o resultado no destino, retornando
// o caminho final.
func Gerar(ctx context.Context, r Renderer, w Writer, nome string, d Descricao) (string, error) {
	data, err := r.Render(ctx, d)
	if err != nil {
		return "", fmt.Errorf("erro ao renderizar PDF: %w", err)
	}
	return w.Write(ctx, nome, data)
}

// FileWriter grava PDFs em um diretório local.
type FileWriter struct {
	Dir string
}

// Write grava o arquivo e retorna o caminho completo. O diretório é criado
// quando necessário; em erro nenhum arquivo parcial permanece aberto.
func (w *FileWriter) Write(ctx context.Context, nome string, data []byte) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("erro ao criar diretório de PDFs: %w", err)
	}

	path := filepath.Join(w.Dir, nome)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("erro ao gravar PDF: %w", err)
	}
	return path, nil
}

// S3API abstrai o cliente S3 para permitir mock em testes.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Writer grava PDFs em um bucket S3.
type S3Writer struct {
	Client S3API
	Bucket string
	Prefix string
}

func (w *S3Writer) Write(ctx context.Context, nome string, data []byte) (string, error) {
	key := w.Prefix + nome
	contentType := "application/pdf"

	_, err := w.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &w.Bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("erro ao enviar PDF ao S3: %w", err)
	}
	return "s3://" + w.Bucket + "/" + key, nil
}
