package content

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	perrors "github.com/apillot/portfolio/internal/errors"
)

func TestDefaultsDecode(t *testing.T) {
	ctx := context.Background()
	src := Defaults()

	exp, err := Decode[Experience](ctx, src, KeyExperience)
	if err != nil {
		t.Fatalf("experience: %v", err)
	}
	if len(exp.Positions) == 0 {
		t.Error("experience has no positions")
	}

	projects, err := Decode[Projects](ctx, src, KeyProjects)
	if err != nil {
		t.Fatalf("projects: %v", err)
	}
	var wip bool
	for _, p := range projects.Projects {
		wip = wip || p.WIP()
	}
	if !wip {
		t.Error("defaults should include a work-in-progress project")
	}

	if _, err := Decode[Contact](ctx, src, KeyContact); err != nil {
		t.Fatalf("contact: %v", err)
	}
	about, err := Decode[About](ctx, src, KeyAbout)
	if err != nil {
		t.Fatalf("about: %v", err)
	}
	if about.Headline == "" {
		t.Error("about has no headline")
	}
}

func TestDecodeErrors(t *testing.T) {
	src := NewFSSource(fstest.MapFS{
		"about.yaml":    {Data: []byte("headline: Hi\nunknown: field\n")},
		"empty.yaml":    {Data: []byte("")},
		"broken.yaml":   {Data: []byte("headline: [unclosed\n")},
		"invalid.yaml":  {Data: []byte("paragraphs: [a]\n")},
		"projects.yaml": {Data: []byte("projects:\n  - name: X\n    status: archived\n")},
	})
	ctx := context.Background()

	tests := []struct {
		name     string
		key      string
		decode   func(string) error
		wantCode string
	}{
		{"unknown field", "about.yaml", func(k string) error { _, err := Decode[About](ctx, src, k); return err }, "S002"},
		{"empty", "empty.yaml", func(k string) error { _, err := Decode[About](ctx, src, k); return err }, "S002"},
		{"syntax", "broken.yaml", func(k string) error { _, err := Decode[About](ctx, src, k); return err }, "S002"},
		{"validation", "invalid.yaml", func(k string) error { _, err := Decode[About](ctx, src, k); return err }, "S002"},
		{"bad status", "projects.yaml", func(k string) error { _, err := Decode[Projects](ctx, src, k); return err }, "S002"},
		{"missing", "contact.yaml", func(k string) error { _, err := Decode[Contact](ctx, src, k); return err }, "S001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decode(tt.key)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := perrors.CodeOf(err); got != tt.wantCode {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.wantCode, err)
			}
		})
	}

	_, err := Decode[Contact](ctx, src, "contact.yaml")
	if !errors.Is(err, ErrNotExist) {
		t.Errorf("missing document should wrap ErrNotExist: %v", err)
	}
}

func TestDecodeSourceFailure(t *testing.T) {
	src := SourceFunc(func(context.Context, string) ([]byte, error) {
		return nil, errors.New("connection reset")
	})
	_, err := Decode[About](context.Background(), src, KeyAbout)
	if perrors.CodeOf(err) != "S003" {
		t.Errorf("code = %q, want S003", perrors.CodeOf(err))
	}
}

func TestFSSourceKeys(t *testing.T) {
	src := NewFSSource(fstest.MapFS{"about.yaml": {Data: []byte("headline: x")}})
	ctx := context.Background()

	for _, key := range []string{"", "/about.yaml", "../about.yaml", "a/../about.yaml", `a\b.yaml`} {
		if _, err := src.Open(ctx, key); err == nil {
			t.Errorf("Open(%q) should fail", key)
		}
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := src.Open(canceled, "about.yaml"); !errors.Is(err, context.Canceled) {
		t.Errorf("Open with canceled ctx error = %v", err)
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	src := DirSource(dir)
	if _, err := src.Open(context.Background(), KeyAbout); !errors.Is(err, ErrNotExist) {
		t.Errorf("error = %v, want ErrNotExist", err)
	}
}

type fakeS3 struct {
	objects map[string]string
	err     error
	lastKey string
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.lastKey = *in.Bucket + "/" + *in.Key
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3Source(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{
		"site/about.yaml": "headline: From the bucket\n",
	}}
	src := NewS3Source(fake, "portfolio", "site")
	ctx := context.Background()

	about, err := Decode[About](ctx, src, KeyAbout)
	if err != nil {
		t.Fatal(err)
	}
	if about.Headline != "From the bucket" {
		t.Errorf("headline = %q", about.Headline)
	}
	if fake.lastKey != "portfolio/site/about.yaml" {
		t.Errorf("requested %q", fake.lastKey)
	}

	if _, err := src.Open(ctx, KeyContact); !errors.Is(err, ErrNotExist) {
		t.Errorf("missing object error = %v, want ErrNotExist", err)
	}

	fake.err = errors.New("throttled")
	if _, err := src.Open(ctx, KeyAbout); err == nil || errors.Is(err, ErrNotExist) {
		t.Errorf("transport error = %v", err)
	}

	if _, err := src.Open(ctx, "../secret"); err == nil {
		t.Error("invalid key should be rejected before calling S3")
	}
}

func TestS3SourceSizeLimit(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{
		"big.yaml": strings.Repeat("a", maxObjectSize+1),
	}}
	src := NewS3Source(fake, "b", "")
	if _, err := src.Open(context.Background(), "big.yaml"); err == nil {
		t.Error("oversized object should be rejected")
	}
}

func TestNewS3Client(t *testing.T) {
	client := NewS3Client("eu-west-3", "http://localhost:9000", true)
	opts := client.Options()
	if opts.Region != "eu-west-3" || !opts.UsePathStyle {
		t.Errorf("options = region %q pathStyle %v", opts.Region, opts.UsePathStyle)
	}
	if opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://localhost:9000" {
		t.Errorf("endpoint = %v", opts.BaseEndpoint)
	}
	if NewS3Client("us-east-1", "", false).Options().BaseEndpoint != nil {
		t.Error("empty endpoint should leave BaseEndpoint unset")
	}
}
