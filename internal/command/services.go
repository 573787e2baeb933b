// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/urfave/cli/v3"

	"github.com/staranto/gifctl/internal/aws"
	"github.com/staranto/gifctl/internal/cache"
	"github.com/staranto/gifctl/internal/cacheutil"
	"github.com/staranto/gifctl/internal/config"
	"github.com/staranto/gifctl/internal/giphy"
	"github.com/staranto/gifctl/internal/trending"
)

// SettingsFromCommand resolves Settings from the config loaded for the
// command's namespace, the environment and whichever override flags the
// command defines and the user set.
func SettingsFromCommand(cmd *cli.Command, extra ...config.SettingsOption) (config.Settings, error) {
	m := GetMeta(cmd)

	opts := append([]config.SettingsOption(nil), extra...)
	if cmd.IsSet("api-key") {
		opts = append(opts, config.WithAPIKey(cmd.String("api-key")))
	}
	if cmd.IsSet("endpoint") {
		opts = append(opts, config.WithBaseURL(cmd.String("endpoint")))
	}
	if cmd.IsSet("ttl") {
		opts = append(opts, config.WithTTL(cmd.Duration("ttl")))
	}
	if cmd.IsSet("store") {
		opts = append(opts, config.WithStore(cmd.String("store")))
	}
	if cmd.IsSet("stale") {
		opts = append(opts, config.WithStaleFallback(cmd.Bool("stale")))
	}

	return config.NewSettings(m.Config, opts...)
}

// NewClient builds the gifs API client over a pooled HTTP fetcher.
func NewClient(s config.Settings) *giphy.Client {
	return giphy.NewClient(s, giphy.NewHTTPFetcher())
}

// NewSlot returns the durable backend named by s.Store. The file store
// falls back to none when caching is disabled with GIFCTL_CACHE.
func NewSlot(ctx context.Context, s config.Settings) (cache.Slot, error) {
	switch s.Store {
	case "none":
		return cache.NopSlot{}, nil

	case "s3":
		// The cache is best effort; fail over to a fetch quickly.
		awsCfg, err := aws.LoadAWSConfig(ctx,
			aws.WithProfile(s.S3Profile),
			aws.WithRegion(s.S3Region),
			aws.WithRetryer(func() awsv2.Retryer {
				return retry.AddWithMaxAttempts(retry.NewStandard(), 2)
			}))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		var optFns []func(*s3.Options)
		if s.S3Endpoint != "" {
			optFns = append(optFns, aws.WithS3BaseEndpoint(s.S3Endpoint))
		}
		client := aws.NewS3(awsCfg, optFns...)
		log.Debugf("durable store: s3://%s/%s", s.S3Bucket, s.S3Prefix)
		return aws.NewS3Slot(client, s.S3Bucket, s.S3Prefix), nil

	default:
		if !cacheutil.Enabled() {
			log.Debug("durable store: disabled by GIFCTL_CACHE")
			return cache.NopSlot{}, nil
		}
		dir, _ := cacheutil.Dir()
		log.Debugf("durable store: %s", dir)
		return cacheutil.NewSlot(trending.Key), nil
	}
}

// NewTrendingService wires settings, the client and the durable slot into a
// trending.Service.
func NewTrendingService(ctx context.Context, cmd *cli.Command, extra ...config.SettingsOption) (*trending.Service, config.Settings, error) {
	s, err := SettingsFromCommand(cmd, extra...)
	if err != nil {
		return nil, s, err
	}

	slot, err := NewSlot(ctx, s)
	if err != nil {
		return nil, s, err
	}

	svc := trending.NewService(NewClient(s), slot,
		trending.WithTTL(s.TTL),
		trending.WithPolicy(trending.PolicyFor(s.StaleFallback)))
	return svc, s, nil
}
