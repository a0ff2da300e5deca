package s3

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"go.uber.org/zap"

	"github.com/nvollmar/sharefs/storage"
)

// List enumerates the immediate children of dir in enumeration order.
// An absent directory yields an empty enumeration; Stat is the authority on
// whether the directory itself exists.
func (a *S3Adapter) List(ctx context.Context, dir string) ([]storage.FileInfo, error) {
	prefix := a.pathToKey(dir)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(a.bucketName),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	}

	var results []storage.FileInfo

	for {
		result, err := a.client.ListObjectsV2WithContext(ctx, input)
		if err != nil {
			return nil, translate("list", dir, err)
		}

		// Subdirectories arrive as common prefixes
		for _, commonPrefix := range result.CommonPrefixes {
			if commonPrefix.Prefix == nil {
				continue
			}

			dirName := strings.TrimSuffix(strings.TrimPrefix(*commonPrefix.Prefix, prefix), "/")
			if dirName == "" {
				continue
			}

			results = append(results, storage.FileInfo{
				Name:   dirName,
				Path:   a.keyToPath(strings.TrimSuffix(*commonPrefix.Prefix, "/")),
				Exists: true,
				IsDir:  true,
			})
		}

		for _, object := range result.Contents {
			if object.Key == nil {
				continue
			}

			// The directory's own marker is not a child
			if strings.HasSuffix(*object.Key, "/") {
				continue
			}

			fileName := strings.TrimPrefix(*object.Key, prefix)
			if fileName == "" || strings.Contains(fileName, "/") {
				continue
			}

			fi := storage.FileInfo{
				Name:   fileName,
				Path:   a.keyToPath(*object.Key),
				Exists: true,
			}
			if object.Size != nil {
				fi.Size = *object.Size
			}
			if object.LastModified != nil {
				fi.ModTime = *object.LastModified
			}

			results = append(results, fi)
		}

		if result.NextContinuationToken == nil {
			break
		}
		input.ContinuationToken = result.NextContinuationToken
	}

	return results, nil
}

// Purge removes every object under the subtree rooted at p, including
// directory markers. Used for ephemeral-root teardown.
func (a *S3Adapter) Purge(ctx context.Context, p string) error {
	prefix := a.pathToKey(p)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(a.bucketName),
		Prefix: aws.String(prefix),
	}

	deleted := 0
	for {
		result, err := a.client.ListObjectsV2WithContext(ctx, input)
		if err != nil {
			return translate("purge", p, err)
		}

		if len(result.Contents) > 0 {
			objects := make([]*s3.ObjectIdentifier, 0, len(result.Contents))
			for _, object := range result.Contents {
				objects = append(objects, &s3.ObjectIdentifier{Key: object.Key})
			}

			_, err = a.client.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
				Bucket: aws.String(a.bucketName),
				Delete: &s3.Delete{
					Objects: objects,
					Quiet:   aws.Bool(true),
				},
			})
			if err != nil {
				return translate("purge", p, err)
			}
			deleted += len(objects)
		}

		if result.NextContinuationToken == nil {
			break
		}
		input.ContinuationToken = result.NextContinuationToken
	}

	a.logger.Debug("Subtree purged from S3",
		zap.String("bucket", a.bucketName),
		zap.String("prefix", prefix),
		zap.Int("objects", deleted))

	return nil
}
