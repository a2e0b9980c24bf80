package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"

	"github.com/envault/envault/pkg/export"
)

// AWS error codes
const (
	ResourceNotFoundException = "ResourceNotFoundException"
	AccessDeniedException     = "AccessDeniedException"
)

// ManagerAPI is the part of the Secrets Manager client AWSProvider uses
type ManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error)
	CreateSecret(ctx context.Context, params *secretsmanager.CreateSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error)
}

// AWSProvider stores each environment as one JSON secret in AWS Secrets
// Manager. Secret values are never logged.
type AWSProvider struct {
	api    ManagerAPI
	logger *slog.Logger
}

// NewAWSProvider loads the default AWS configuration. An empty region keeps
// the region from the environment or shared config.
func NewAWSProvider(ctx context.Context, region string, logger *slog.Logger) (*AWSProvider, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewAWSProviderWithAPI(secretsmanager.NewFromConfig(cfg), logger), nil
}

func NewAWSProviderWithAPI(api ManagerAPI, logger *slog.Logger) *AWSProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &AWSProvider{api: api, logger: logger}
}

// mapError turns AWS error codes into package errors
func mapError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case ResourceNotFoundException:
			return ErrRemoteNotFound
		case AccessDeniedException:
			return ErrAccessDenied
		}
	}
	return err
}

// Push writes entries as a new version of the secret, creating the secret
// on first push
func (p *AWSProvider) Push(ctx context.Context, name string, entries []export.Entry) error {
	if name == "" {
		return ErrEmptyName
	}
	body, err := export.ExportJSON(entries)
	if err != nil {
		return err
	}
	value := string(body)

	p.logger.InfoContext(ctx, "pushing environment", "secret_name", name, "count", len(entries))
	_, err = p.api.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     aws.String(name),
		SecretString: aws.String(value),
	})
	if err == nil {
		return nil
	}
	if !errors.Is(mapError(err), ErrRemoteNotFound) {
		p.logger.ErrorContext(ctx, "failed to push environment", "secret_name", name, "error", err)
		return fmt.Errorf("push %s: %w", name, mapError(err))
	}

	p.logger.InfoContext(ctx, "creating remote secret", "secret_name", name)
	_, err = p.api.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
		Name:         aws.String(name),
		SecretString: aws.String(value),
		Description:  aws.String("envault environment"),
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to create remote secret", "secret_name", name, "error", err)
		return fmt.Errorf("create %s: %w", name, mapError(err))
	}
	return nil
}

// Pull reads the current version of the secret
func (p *AWSProvider) Pull(ctx context.Context, name string) ([]export.Entry, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	p.logger.InfoContext(ctx, "pulling environment", "secret_name", name)
	out, err := p.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(name)})
	if err != nil {
		return nil, fmt.Errorf("pull %s: %w", name, mapError(err))
	}

	var body []byte
	switch {
	case out.SecretString != nil:
		body = []byte(*out.SecretString)
	case out.SecretBinary != nil:
		body = out.SecretBinary
	default:
		return nil, fmt.Errorf("pull %s: %w", name, ErrRemoteNotFound)
	}
	entries, err := decode(body)
	if err != nil {
		return nil, fmt.Errorf("pull %s: %w", name, err)
	}
	return entries, nil
}
