// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client used by S3Slot.
type S3API interface {
	GetObject(ctx context.Context, in *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
}

// S3Slot stores each key as one object at Prefix/key in Bucket.
type S3Slot struct {
	Client S3API
	Bucket string
	Prefix string
}

// NewS3Slot returns a slot over client.
func NewS3Slot(client S3API, bucket, prefix string) *S3Slot {
	return &S3Slot{Client: client, Bucket: bucket, Prefix: prefix}
}

func (s *S3Slot) objectKey(key string) string {
	if s.Prefix == "" {
		return key + ".json"
	}
	return path.Join(s.Prefix, key+".json")
}

// Get fetches the object for key. A missing object is reported as absent.
func (s *S3Slot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	objKey := s.objectKey(key)
	out, err := s.Client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(s.Bucket),
		Key:    awsv2.String(objKey),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			log.Debugf("s3 cache miss: s3://%s/%s", s.Bucket, objKey)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get s3://%s/%s: %w", s.Bucket, objKey, err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read s3://%s/%s: %w", s.Bucket, objKey, err)
	}
	return b, true, nil
}

// Set overwrites the object for key.
func (s *S3Slot) Set(ctx context.Context, key string, data []byte) error {
	objKey := s.objectKey(key)
	_, err := s.Client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket:      awsv2.String(s.Bucket),
		Key:         awsv2.String(objKey),
		Body:        bytes.NewReader(data),
		ContentType: awsv2.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put s3://%s/%s: %w", s.Bucket, objKey, err)
	}
	return nil
}
