package config

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// LoadSSM overlays SSM Parameter Store values found under SSM_PARAMETER_PATH onto cfg.
// Parameter names map to keys by their last path segment
// (/estate/prod/SESSION_SECRET -> SESSION_SECRET). Keys already present in cfg win.
// It is a no-op when SSM_PARAMETER_PATH is unset.
func LoadSSM(ctx context.Context, cfg map[string]string) error {
	parameterPath := GetString(cfg, "SSM_PARAMETER_PATH", "")
	if parameterPath == "" {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(GetString(cfg, "AWS_REGION", "ap-southeast-1")))
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	return OverlayParameters(ctx, ssm.NewFromConfig(awsCfg), parameterPath, cfg)
}

// OverlayParameters pages through every parameter below parameterPath and copies the
// ones missing from cfg.
func OverlayParameters(ctx context.Context, client ssm.GetParametersByPathAPIClient, parameterPath string, cfg map[string]string) error {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(parameterPath),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	loaded := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to read SSM parameters under %s: %w", parameterPath, err)
		}

		for _, parameter := range page.Parameters {
			key := path.Base(aws.ToString(parameter.Name))
			if key == "" || key == "." || key == "/" {
				continue
			}
			if existing, ok := cfg[key]; ok && existing != "" {
				continue
			}
			cfg[key] = aws.ToString(parameter.Value)
			loaded++
		}
	}

	log.Info().Str("path", parameterPath).Int("loaded", loaded).Msg("Loaded SSM parameters")
	return nil
}
