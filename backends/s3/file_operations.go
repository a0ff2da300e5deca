package s3

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"go.uber.org/zap"

	"github.com/nvollmar/sharefs/storage"
)

// Open opens a file for reading.
func (a *S3Adapter) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	key := a.pathToKey(p)

	result, err := a.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, translate("open", p, err)
	}

	a.logger.Debug("File opened from S3",
		zap.String("bucket", a.bucketName),
		zap.String("key", key))

	return result.Body, nil
}

// Save writes the reader's content to p, creating missing intermediate
// directory markers first and overwriting any existing object. The reader is
// consumed exactly once; it is buffered because S3 needs a seekable body.
func (a *S3Adapter) Save(ctx context.Context, p string, reader io.Reader) error {
	key := a.pathToKey(p)

	data, err := io.ReadAll(reader)
	if err != nil {
		return storage.Unknown("save", p, err)
	}

	if err := a.ensurePath(ctx, path.Dir(p)); err != nil {
		return err
	}

	putInput := &s3.PutObjectInput{
		Bucket: aws.String(a.bucketName),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}

	if a.serverSideEncryption != "" {
		putInput.ServerSideEncryption = aws.String(a.serverSideEncryption)
		if a.serverSideEncryption == "aws:kms" && a.kmsKeyID != "" {
			putInput.SSEKMSKeyId = aws.String(a.kmsKeyID)
		}
	}

	if a.acl != "" {
		putInput.ACL = aws.String(a.acl)
	}

	if _, err := a.client.PutObjectWithContext(ctx, putInput); err != nil {
		return translate("save", p, err)
	}

	a.logger.Debug("File saved to S3",
		zap.String("bucket", a.bucketName),
		zap.String("key", key),
		zap.Int("size", len(data)))

	return nil
}

// Copy creates target as a full copy of source, overwriting an existing
// target. Fails with storage.ErrNotFound when the source is absent.
func (a *S3Adapter) Copy(ctx context.Context, source, target string) error {
	srcKey := a.pathToKey(source)
	dstKey := a.pathToKey(target)

	if err := a.ensurePath(ctx, path.Dir(target)); err != nil {
		return err
	}

	_, err := a.client.CopyObjectWithContext(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(a.bucketName),
		CopySource: aws.String(a.bucketName + "/" + srcKey),
		Key:        aws.String(dstKey),
	})
	if err != nil {
		return translate("copy", source, err)
	}

	a.logger.Debug("File copied in S3",
		zap.String("bucket", a.bucketName),
		zap.String("source", srcKey),
		zap.String("target", dstKey))

	return nil
}

// Delete removes the object at p. S3 deletion is idempotent: deleting a
// missing object succeeds, matching the contract.
func (a *S3Adapter) Delete(ctx context.Context, p string) error {
	key := a.pathToKey(p)

	_, err := a.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		if err := translate("delete", p, err); !isNotFound(err) {
			return err
		}
	}

	a.logger.Debug("File deleted from S3",
		zap.String("bucket", a.bucketName),
		zap.String("key", key))

	return nil
}

// Stat reports existence and metadata for p. Absence is folded into the
// result, never an error. A path names a directory when its marker object
// exists or any object lives under its prefix.
func (a *S3Adapter) Stat(ctx context.Context, p string) (storage.FileInfo, error) {
	if p == "/" {
		return storage.FileInfo{Name: "/", Path: "/", Exists: true, IsDir: true}, nil
	}

	key := a.pathToKey(p)

	head, err := a.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucketName),
		Key:    aws.String(key),
	})
	if err == nil {
		fi := storage.FileInfo{
			Name:   path.Base(p),
			Path:   p,
			Exists: true,
		}
		if head.ContentLength != nil {
			fi.Size = *head.ContentLength
		}
		if head.LastModified != nil {
			fi.ModTime = *head.LastModified
		}
		return fi, nil
	}
	if terr := translate("stat", p, err); !isNotFound(terr) {
		return storage.FileInfo{}, terr
	}

	isDir, modTime, err := a.probeDirectory(ctx, key)
	if err != nil {
		return storage.FileInfo{}, err
	}
	if isDir {
		return storage.FileInfo{
			Name:    path.Base(p),
			Path:    p,
			Exists:  true,
			IsDir:   true,
			ModTime: modTime,
		}, nil
	}

	return storage.Absent(p), nil
}

// probeDirectory checks for a directory marker and, failing that, for any
// object under the prefix (an implicit directory). Enumeration alone cannot
// distinguish empty from absent, hence the marker probe first.
func (a *S3Adapter) probeDirectory(ctx context.Context, key string) (bool, time.Time, error) {
	marker := key + "/"

	head, err := a.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucketName),
		Key:    aws.String(marker),
	})
	if err == nil {
		var mod time.Time
		if head.LastModified != nil {
			mod = *head.LastModified
		}
		return true, mod, nil
	}
	if terr := translate("stat", a.keyToPath(key), err); !isNotFound(terr) {
		return false, time.Time{}, terr
	}

	list, err := a.client.ListObjectsV2WithContext(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(a.bucketName),
		Prefix:  aws.String(marker),
		MaxKeys: aws.Int64(1),
	})
	if err != nil {
		return false, time.Time{}, translate("stat", a.keyToPath(key), err)
	}

	return len(list.Contents) > 0 || len(list.CommonPrefixes) > 0, time.Time{}, nil
}

// ensurePath idempotently creates the chain of directory markers leading to
// dir, so a write implies its intermediate directories.
func (a *S3Adapter) ensurePath(ctx context.Context, dir string) error {
	if dir == "/" || dir == "." || dir == "" {
		return nil
	}

	segments := strings.Split(strings.TrimPrefix(dir, "/"), "/")
	prefix := ""
	for _, segment := range segments {
		prefix += segment + "/"

		_, err := a.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(a.bucketName),
			Key:    aws.String(prefix),
		})
		if err == nil {
			continue
		}
		if terr := translate("save", a.keyToPath(prefix), err); !isNotFound(terr) {
			return terr
		}

		_, err = a.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
			Bucket: aws.String(a.bucketName),
			Key:    aws.String(prefix),
			Body:   bytes.NewReader([]byte{}),
		})
		if err != nil {
			return translate("save", a.keyToPath(prefix), err)
		}
	}

	return nil
}
