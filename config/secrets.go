package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// ParameterStore is the slice of the SSM client used to resolve secrets.
type ParameterStore interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// NewParameterStore builds an SSM client from the default AWS credential chain.
func NewParameterStore(ctx context.Context, region string) (*ssm.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return ssm.NewFromConfig(awsCfg), nil
}

// ResolveSecrets replaces secrets that are configured by reference.
// It is a no-op when no parameter names are set.
func ResolveSecrets(ctx context.Context, cfg *Config, store ParameterStore) error {
	if cfg.Auth.JWTSecretParam == "" {
		return nil
	}
	if store == nil {
		return fmt.Errorf("parameter store required to resolve %s", cfg.Auth.JWTSecretParam)
	}

	out, err := store.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(cfg.Auth.JWTSecretParam),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to read parameter %s: %w", cfg.Auth.JWTSecretParam, err)
	}
	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return fmt.Errorf("parameter %s is empty", cfg.Auth.JWTSecretParam)
	}

	cfg.Auth.JWTSecret = aws.ToString(out.Parameter.Value)
	log.Info().Str("parameter", cfg.Auth.JWTSecretParam).Msg("Resolved JWT secret from parameter store")
	return nil
}
