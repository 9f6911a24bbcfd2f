package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/audiomidi/ingest/internal/util"
)

// fakeS3 records uploads and can fail the first n PUTs.
type fakeS3 struct {
	s3iface.S3API
	objects      map[string][]byte
	contentTypes map[string]string
	failPuts     int
	putErr       error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if f.failPuts > 0 {
		f.failPuts--
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.StringValue(in.Key)] = data
	f.contentTypes[aws.StringValue(in.Key)] = aws.StringValue(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func TestS3StorePut(t *testing.T) {
	client := newFakeS3()
	store := &S3Store{client: client, bucket: "raw"}

	uri, err := store.Put(context.Background(), "GuitarSet/t/annotation.jams", []byte("{}"), "application/json")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if uri != "s3://raw/GuitarSet/t/annotation.jams" {
		t.Errorf("uri = %q", uri)
	}
	if string(client.objects["GuitarSet/t/annotation.jams"]) != "{}" {
		t.Errorf("stored body = %q", client.objects["GuitarSet/t/annotation.jams"])
	}
	if client.contentTypes["GuitarSet/t/annotation.jams"] != "application/json" {
		t.Errorf("content type = %q", client.contentTypes["GuitarSet/t/annotation.jams"])
	}
}

func TestS3StorePutDefaultsContentType(t *testing.T) {
	client := newFakeS3()
	store := &S3Store{client: client, bucket: "raw"}

	if _, err := store.Put(context.Background(), "k", []byte("x"), ""); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if client.contentTypes["k"] != "application/octet-stream" {
		t.Errorf("content type = %q", client.contentTypes["k"])
	}
}

func TestS3StorePutRetriesTransientFailures(t *testing.T) {
	client := newFakeS3()
	client.failPuts = 2
	client.putErr = fmt.Errorf("dial tcp: connection refused")
	store := &S3Store{client: client, bucket: "raw"}

	if _, err := store.Put(context.Background(), "k", []byte("x"), ""); err != nil {
		t.Fatalf("Put should have recovered: %v", err)
	}
	if _, ok := client.objects["k"]; !ok {
		t.Error("object was not written after retries")
	}
}

func TestS3StorePutStorageError(t *testing.T) {
	client := newFakeS3()
	client.failPuts = 1
	client.putErr = fmt.Errorf("access denied")
	store := &S3Store{client: client, bucket: "raw"}

	_, err := store.Put(context.Background(), "k", []byte("x"), "")
	if !errors.Is(err, util.ErrStorage) {
		t.Errorf("expected ErrStorage, got %v", err)
	}
}
