package publish

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/df07/go-tinyray/pkg/config"
)

// fakeS3 records PutObject calls
type fakeS3 struct {
	s3iface.S3API
	inputs   []*s3.PutObjectInput
	bodies   [][]byte
	deadline bool
	err      error
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	_, f.deadline = ctx.Deadline()
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, input)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}

func TestUploader_Upload(t *testing.T) {
	fake := &fakeS3{}
	cfg := config.S3Config{Bucket: "renders", Prefix: "/tinyray/"}
	u := NewUploaderWithClient(fake, cfg, nopLogger{})

	data := []byte("BMfake")
	location, err := u.Upload(context.Background(), "default.bmp", data, "image/bmp")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if len(fake.inputs) != 1 {
		t.Fatalf("Expected 1 upload, got %d", len(fake.inputs))
	}
	input := fake.inputs[0]
	if aws.StringValue(input.Bucket) != "renders" {
		t.Errorf("Expected bucket renders, got %q", aws.StringValue(input.Bucket))
	}
	if aws.StringValue(input.Key) != "tinyray/default.bmp" {
		t.Errorf("Expected key tinyray/default.bmp, got %q", aws.StringValue(input.Key))
	}
	if aws.StringValue(input.ContentType) != "image/bmp" {
		t.Errorf("Expected content type image/bmp, got %q", aws.StringValue(input.ContentType))
	}
	if aws.Int64Value(input.ContentLength) != int64(len(data)) {
		t.Errorf("Expected content length %d, got %d", len(data), aws.Int64Value(input.ContentLength))
	}
	if string(fake.bodies[0]) != string(data) {
		t.Errorf("Expected body %q, got %q", data, fake.bodies[0])
	}
	if !fake.deadline {
		t.Error("Expected upload context to carry a timeout")
	}
	if location != "s3://renders/tinyray/default.bmp" {
		t.Errorf("Unexpected location %q", location)
	}
}

func TestUploader_Location(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.S3Config
		expected string
	}{
		{"aws", config.S3Config{Bucket: "b"}, "s3://b/out.png"},
		{"custom endpoint", config.S3Config{Bucket: "b", Endpoint: "http://localhost:9000/"}, "http://localhost:9000/b/out.png"},
		{"public url", config.S3Config{Bucket: "b", Endpoint: "http://minio", PublicURL: "https://cdn.example.com"}, "https://cdn.example.com/out.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := NewUploaderWithClient(&fakeS3{}, tt.cfg, nil)
			location, err := u.Upload(context.Background(), "out.png", []byte{1}, "image/png")
			if err != nil {
				t.Fatalf("Upload failed: %v", err)
			}
			if location != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, location)
			}
		})
	}
}

func TestUploader_Key(t *testing.T) {
	tests := []struct {
		prefix   string
		name     string
		expected string
	}{
		{"", "a.bmp", "a.bmp"},
		{"", "/a.bmp", "a.bmp"},
		{"renders", "a.bmp", "renders/a.bmp"},
		{"renders/", "day1/a.bmp", "renders/day1/a.bmp"},
	}

	for _, tt := range tests {
		u := NewUploaderWithClient(&fakeS3{}, config.S3Config{Bucket: "b", Prefix: tt.prefix}, nil)
		if got := u.Key(tt.name); got != tt.expected {
			t.Errorf("Key(%q) with prefix %q = %q, want %q", tt.name, tt.prefix, got, tt.expected)
		}
	}
}

func TestUploader_Error(t *testing.T) {
	errDenied := errors.New("access denied")
	u := NewUploaderWithClient(&fakeS3{err: errDenied}, config.S3Config{Bucket: "b"}, nil)

	_, err := u.Upload(context.Background(), "x.bmp", []byte{1}, "image/bmp")
	if !errors.Is(err, errDenied) {
		t.Fatalf("Expected wrapped client error, got %v", err)
	}
	if !strings.Contains(err.Error(), "x.bmp") {
		t.Errorf("Expected error to name the key, got %v", err)
	}
}

func TestNewUploader_RequiresBucket(t *testing.T) {
	if _, err := NewUploader(config.S3Config{Region: "us-east-1"}, nil); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestNewUploader_CustomEndpoint(t *testing.T) {
	cfg := config.S3Config{
		Bucket:    "renders",
		Region:    "us-east-1",
		Endpoint:  "http://localhost:9000",
		AccessKey: "key",
		SecretKey: "secret",
	}
	u, err := NewUploader(cfg, nil)
	if err != nil {
		t.Fatalf("NewUploader failed: %v", err)
	}
	if u.Key("a.bmp") != "a.bmp" {
		t.Errorf("Unexpected key %q", u.Key("a.bmp"))
	}
}
