// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	getErr  error
}

func (f *fakeS3) GetObject(_ context.Context, in *s3v2.GetObjectInput, _ ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	b, ok := f.objects[awsv2.ToString(in.Bucket)+"/"+awsv2.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3v2.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3v2.PutObjectInput, _ ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[awsv2.ToString(in.Bucket)+"/"+awsv2.ToString(in.Key)] = b
	return &s3v2.PutObjectOutput{}, nil
}

func TestS3Slot(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string][]byte{}}
	slot := NewS3Slot(fake, "gif-cache", "team")

	_, ok, err := slot.Get(ctx, "trending")
	assert.NoError(t, err, "NoSuchKey is a miss, not an error")
	assert.False(t, ok)

	require.NoError(t, slot.Set(ctx, "trending", []byte(`{"savedAt":1,"data":[]}`)))
	assert.Contains(t, fake.objects, "gif-cache/team/trending.json")

	b, ok, err := slot.Get(ctx, "trending")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"savedAt":1,"data":[]}`, string(b))
}

func TestS3Slot_NoPrefix(t *testing.T) {
	assert.Equal(t, "trending.json", NewS3Slot(nil, "b", "").objectKey("trending"))
}

func TestS3Slot_GetError(t *testing.T) {
	boom := errors.New("access denied")
	slot := NewS3Slot(&fakeS3{getErr: boom}, "gif-cache", "")

	_, ok, err := slot.Get(context.Background(), "trending")
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}
