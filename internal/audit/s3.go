package audit

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/nicois/bigset"
)

// batchKey records the object key of one uploaded batch in s.uploaded.
type batchKey struct {
	Key string
}

// S3Sink buffers events in memory and flushes them as one
// newline-delimited-JSON object per batch.
type S3Sink struct {
	client *s3.Client
	bucket string
	prefix string

	uploaded *bigset.Bigset[batchKey]

	mu      sync.Mutex
	pending []Event
	seq     int
}

// NewS3Sink parses uri (s3://bucket/prefix) and constructs an S3Sink using
// the default AWS credential chain.
func NewS3Sink(ctx context.Context, uri string) (*S3Sink, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "s3" {
		return nil, fmt.Errorf("invalid scheme: %s", u.Scheme)
	}
	uploaded, err := bigset.Create[batchKey](nil, bigset.WithKeyFunction(func(b *batchKey) []byte {
		return []byte(b.Key)
	}))
	if err != nil {
		return nil, err
	}
	return &S3Sink{
		client:   s3.NewFromConfig(cfg),
		bucket:   u.Host,
		prefix:   strings.TrimPrefix(u.Path, "/"),
		uploaded: uploaded,
	}, nil
}

func (s *S3Sink) Append(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, e)
	return nil
}

// Flush uploads every pending event as one batch object and clears the
// buffer. Every call names its batch with a fresh timestamp-and-sequence
// key; a key already recorded in s.uploaded is not uploaded again. If
// PutObject fails, the events go back to the front of the buffer so the
// next Flush uploads them under that call's new key.
func (s *S3Sink) Flush(ctx context.Context) error {
	s.mu.Lock()
	events := s.pending
	s.pending = nil
	s.seq++
	key := s.batchPath(s.seq)
	s.mu.Unlock()

	if len(events) == 0 {
		return nil
	}

	if already, err := s.uploaded.RetrieveIfExists(ctx, "default", batchKey{Key: key}); err == nil && already != nil {
		return nil
	}

	var buf bytes.Buffer
	for _, e := range events {
		line, err := marshalLine(e)
		if err != nil {
			return err
		}
		buf.Write(line)
	}

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   bytes.NewReader(buf.Bytes()),
	}); err != nil {
		s.mu.Lock()
		s.pending = append(events, s.pending...)
		s.mu.Unlock()
		return err
	}

	_, err := s.uploaded.Add(ctx, "default", batchKey{Key: key})
	return err
}

func (s *S3Sink) batchPath(seq int) string {
	return strings.TrimPrefix(s.prefix+"/"+strconv.FormatInt(time.Now().UnixNano(), 10)+"-"+strconv.Itoa(seq)+".jsonl", "/")
}
