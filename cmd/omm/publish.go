package main

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/omm-dev/omm/internal/build"
	"github.com/omm-dev/omm/internal/config"
	"github.com/omm-dev/omm/pkg/publish"
)

func publishCmd() *cobra.Command {
	var (
		bucket    string
		prefix    string
		region    string
		skipBuild bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the built site to S3",
		Long: `Build the project and upload the output directory to the
configured S3 bucket.

Credentials come from the standard AWS environment (env vars,
shared config, instance role).

Examples:
  omm publish
  omm publish --bucket=my-site --region=eu-west-1
  omm publish --skip-build`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(bucket, prefix, region, skipBuild)
		},
	}

	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "Destination bucket (default from omm.json)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Object key prefix (default from omm.json)")
	cmd.Flags().StringVar(&region, "region", "", "AWS region (default from omm.json)")
	cmd.Flags().BoolVar(&skipBuild, "skip-build", false, "Upload the existing output without rebuilding")

	return cmd
}

func runPublish(bucket, prefix, region string, skipBuild bool) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	if bucket != "" {
		cfg.Publish.Bucket = bucket
	}
	if prefix != "" {
		cfg.Publish.Prefix = prefix
	}
	if region != "" {
		cfg.Publish.Region = region
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !skipBuild {
		fmt.Println("  Building...")
		builder := build.New(cfg, build.Options{Minify: true})
		result, err := builder.Build(ctx)
		if err != nil {
			return err
		}
		success("Built %d pages", len(result.Pages))
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Publish.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Publish.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return err
	}

	publisher, err := publish.New(s3.NewFromConfig(awsCfg), cfg.Publish, nil)
	if err != nil {
		return err
	}

	fmt.Printf("  Uploading %s to s3://%s...\n", cfg.Output, cfg.Publish.Bucket)
	fmt.Println()

	result, err := publisher.Publish(ctx, cfg.OutputPath())
	if err != nil {
		return err
	}

	for _, key := range result.Uploaded {
		info("%s", key)
	}
	fmt.Println()
	success("Published %d objects (%d bytes) in %s",
		len(result.Uploaded), result.Bytes, result.Duration.Round(time.Millisecond))
	fmt.Println()

	return nil
}
