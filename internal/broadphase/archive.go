// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package broadphase

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/linequad/linequad/internal/config"
	"github.com/linequad/linequad/pkg/log"
)

// ArchiveTarget abstracts where a rotated checkpoint file ends up once a
// newer one has superseded it — mirrors pkg/archive/parquet's
// FileTarget/S3Target split, narrowed to the one operation archiving a
// checkpoint needs.
type ArchiveTarget interface {
	Archive(path string) error
}

// archiveFunc adapts a plain function to ArchiveTarget, for tests.
type archiveFunc func(path string) error

func (f archiveFunc) Archive(path string) error { return f(path) }

// localArchiveTarget moves rotated checkpoints into a local directory, the
// teacher's default when no object store is configured.
type localArchiveTarget struct {
	dir string
}

func (t *localArchiveTarget) Archive(path string) error {
	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return fmt.Errorf("broadphase: archive dir: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("broadphase: read checkpoint for archiving: %w", err)
	}
	dst := filepath.Join(t.dir, filepath.Base(path))
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("broadphase: write archived checkpoint: %w", err)
	}
	return os.Remove(path)
}

// s3ArchiveTarget uploads rotated checkpoints to an S3-compatible bucket.
type s3ArchiveTarget struct {
	client *s3.Client
	bucket string
}

func newS3ArchiveTarget(bucket, region string) (*s3ArchiveTarget, error) {
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("broadphase: load AWS config: %w", err)
	}
	return &s3ArchiveTarget{client: s3.NewFromConfig(awsCfg), bucket: bucket}, nil
}

func (t *s3ArchiveTarget) Archive(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("broadphase: read checkpoint for archiving: %w", err)
	}

	_, err = t.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(t.bucket),
		Key:         aws.String(filepath.Base(path)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/avro"),
	})
	if err != nil {
		return fmt.Errorf("broadphase: S3 put object %q: %w", path, err)
	}

	return os.Remove(path)
}

// NewArchiveTarget builds the configured archive destination: S3 if
// archive.s3-bucket is set, otherwise a local directory under
// checkpoint.directory/archive.
func NewArchiveTarget() (ArchiveTarget, error) {
	if config.Keys.Archive.S3Bucket != "" {
		target, err := newS3ArchiveTarget(config.Keys.Archive.S3Bucket, config.Keys.Archive.Region)
		if err != nil {
			return nil, err
		}
		log.Infof("broadphase: archiving checkpoints to s3://%s", config.Keys.Archive.S3Bucket)
		return target, nil
	}

	dir := filepath.Join(config.Keys.Checkpoint.Directory, "archive")
	log.Infof("broadphase: archiving checkpoints to %s", dir)
	return &localArchiveTarget{dir: dir}, nil
}

// rotateCheckpoints archives every checkpoint file under
// checkpoint.directory except the most recent one, the way the teacher's
// Retention worker keeps only what is still within its window.
func rotateCheckpoints(target ArchiveTarget) {
	rotateCheckpointsInDir(config.Keys.Checkpoint.Directory, target)
}

func rotateCheckpointsInDir(dir string, target ArchiveTarget) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warnf("broadphase: could not list checkpoint directory: %v", err)
		return
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".avro" {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	if len(files) <= 1 {
		return
	}

	// Checkpoint file names embed a zero-padded step, so lexical order is
	// chronological order; keep the last one.
	for _, path := range files[:len(files)-1] {
		if err := target.Archive(path); err != nil {
			log.Errorf("broadphase: archiving %s failed: %v", path, err)
		}
	}
}
