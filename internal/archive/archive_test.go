package archive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"scanrecon/internal/config"
)

func TestFileSystemArchive_Put(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("writes report", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "reports")
		a, err := NewFileSystemArchive(dir)
		if err != nil {
			t.Fatalf("NewFileSystemArchive() error = %v", err)
		}

		content := "batchName,expectedCount\n"
		if err := a.Put(ctx, "r.csv", strings.NewReader(content), int64(len(content))); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		got, err := os.ReadFile(filepath.Join(dir, "r.csv"))
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != content {
			t.Errorf("report content = %q, want %q", got, content)
		}
		if a.Location("r.csv") != filepath.Join(dir, "r.csv") {
			t.Errorf("Location() = %q", a.Location("r.csv"))
		}
	})

	t.Run("size mismatch leaves no file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		a, err := NewFileSystemArchive(dir)
		if err != nil {
			t.Fatal(err)
		}

		if err := a.Put(ctx, "r.csv", strings.NewReader("abc"), 10); err == nil {
			t.Fatal("Put() expected size mismatch error")
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 0 {
			t.Errorf("directory not empty after failed Put: %v", entries)
		}
	})

	t.Run("rejects nested names", func(t *testing.T) {
		t.Parallel()
		a, err := NewFileSystemArchive(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		if err := a.Put(ctx, "../escape.csv", strings.NewReader(""), 0); err == nil {
			t.Fatal("Put() expected error for nested name")
		}
	})
}

func TestMemoryArchive(t *testing.T) {
	t.Parallel()
	a := NewMemoryArchive()

	if err := a.Put(context.Background(), "b.csv", strings.NewReader("x"), 1); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := a.Put(context.Background(), "a.csv", strings.NewReader("yy"), 1); err == nil {
		t.Fatal("Put() expected size mismatch error")
	}

	data, ok := a.Get("b.csv")
	if !ok || string(data) != "x" {
		t.Errorf("Get() = %q, %v", data, ok)
	}
	if names := a.Names(); len(names) != 1 || names[0] != "b.csv" {
		t.Errorf("Names() = %v", names)
	}
}

type fakeUploader struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakeUploader) Upload(_ context.Context, input *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, input)
	f.bodies = append(f.bodies, string(body))
	return &manager.UploadOutput{}, nil
}

func TestS3Archive_Put(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		prefix  string
		wantKey string
	}{
		{name: "no prefix", prefix: "", wantKey: "r.csv"},
		{name: "prefix", prefix: "lab/reports", wantKey: "lab/reports/r.csv"},
		{name: "prefix with slashes", prefix: "/lab/", wantKey: "lab/r.csv"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			up := &fakeUploader{}
			a := newS3Archive("bucket", tt.prefix, up)

			if err := a.Put(context.Background(), "r.csv", strings.NewReader("data"), 4); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			if len(up.inputs) != 1 {
				t.Fatalf("uploads = %d, want 1", len(up.inputs))
			}
			in := up.inputs[0]
			if *in.Bucket != "bucket" || *in.Key != tt.wantKey {
				t.Errorf("uploaded to %s/%s, want bucket/%s", *in.Bucket, *in.Key, tt.wantKey)
			}
			if *in.ContentType != "text/csv" {
				t.Errorf("ContentType = %q", *in.ContentType)
			}
			if up.bodies[0] != "data" {
				t.Errorf("body = %q", up.bodies[0])
			}
			if got := a.Location("r.csv"); got != "s3://bucket/"+tt.wantKey {
				t.Errorf("Location() = %q", got)
			}
		})
	}

	t.Run("upload error wrapped", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("access denied")
		a := newS3Archive("bucket", "", &fakeUploader{err: boom})
		err := a.Put(context.Background(), "r.csv", strings.NewReader(""), 0)
		if !errors.Is(err, boom) {
			t.Errorf("Put() error = %v, want wrapping %v", err, boom)
		}
	})
}

func TestMultiArchive(t *testing.T) {
	t.Parallel()
	first, second := NewMemoryArchive(), NewMemoryArchive()
	m := NewMultiArchive(first, second)

	if err := m.Put(context.Background(), "r.csv", bytes.NewReader([]byte("abc")), 3); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	for i, a := range []*MemoryArchive{first, second} {
		if data, ok := a.Get("r.csv"); !ok || string(data) != "abc" {
			t.Errorf("archive %d holds %q, %v", i, data, ok)
		}
	}
	if got := m.Location("r.csv"); got != "memory:r.csv, memory:r.csv" {
		t.Errorf("Location() = %q", got)
	}
}

func TestNewArchiveFromConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      func(dir string) config.ReportConfig
		wantErr  bool
		wantType string
	}{
		{
			name:     "local only",
			cfg:      func(dir string) config.ReportConfig { return config.ReportConfig{Dir: dir} },
			wantType: "fs",
		},
		{
			name: "local and s3",
			cfg: func(dir string) config.ReportConfig {
				return config.ReportConfig{
					Dir:               dir,
					S3Bucket:          "lab",
					S3Region:          "us-east-1",
					S3Endpoint:        "http://127.0.0.1:9000",
					S3AccessKeyID:     "key",
					S3SecretAccessKey: "secret",
				}
			},
			wantType: "multi",
		},
		{
			name:    "missing dir",
			cfg:     func(string) config.ReportConfig { return config.ReportConfig{} },
			wantErr: true,
		},
		{
			name: "bucket without region",
			cfg: func(dir string) config.ReportConfig {
				return config.ReportConfig{Dir: dir, S3Bucket: "lab"}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NewArchiveFromConfig(context.Background(), tt.cfg(t.TempDir()))
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewArchiveFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			switch tt.wantType {
			case "fs":
				if _, ok := got.(*FileSystemArchive); !ok {
					t.Errorf("got %T, want *FileSystemArchive", got)
				}
			case "multi":
				if _, ok := got.(*MultiArchive); !ok {
					t.Errorf("got %T, want *MultiArchive", got)
				}
			}
		})
	}
}
