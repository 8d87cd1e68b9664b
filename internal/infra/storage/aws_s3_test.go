package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type fakeS3 struct {
	objects map[string][]byte
	getErr  error
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func TestAWSS3Store(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	store := &AWSS3Store{client: fake, bucket: "mail.dustinreed.info"}
	ctx := context.Background()

	if got := store.Describe(); got != "S3 (mail.dustinreed.info)" {
		t.Errorf("Describe() = %q", got)
	}

	if _, err := store.Get(ctx, "visitor_count.json"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("NoSuchKey 应映射为 ErrObjectNotFound，实际: %v", err)
	}

	if err := store.Put(ctx, "visitor_count.json", []byte(`{}`), "application/json"); err != nil {
		t.Fatalf("Put 失败: %v", err)
	}
	data, err := store.Get(ctx, "visitor_count.json")
	if err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	if string(data) != `{}` {
		t.Errorf("Get 内容 = %s", data)
	}

	fake.getErr = errors.New("connection reset")
	_, err = store.Get(ctx, "visitor_count.json")
	if err == nil || errors.Is(err, ErrObjectNotFound) {
		t.Errorf("网络错误不应映射为 ErrObjectNotFound，实际: %v", err)
	}
}
