package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	b, _ := io.ReadAll(params.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func TestUploadFile(t *testing.T) {
	putter := &fakePutter{}
	u := &Uploader{Client: putter, Bucket: "docs", Region: "ap-northeast-2"}

	url, err := u.UploadFile(context.Background(), strings.NewReader("pdf-bytes"), "inbound/PO-1/note.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://docs.s3.ap-northeast-2.amazonaws.com/inbound/PO-1/note.pdf", url)
	assert.Equal(t, "docs", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "application/pdf", aws.ToString(putter.input.ContentType))
	assert.Equal(t, "pdf-bytes", putter.body)
}

func TestUploadFile_CloudFrontAndDefaults(t *testing.T) {
	putter := &fakePutter{}
	u := &Uploader{Client: putter, Bucket: "docs", Region: "ap-northeast-2", CloudFrontDomain: "cdn.example.com"}

	url, err := u.UploadFile(context.Background(), strings.NewReader("x"), "a/b.bin", "")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a/b.bin", url)
	assert.Equal(t, "application/octet-stream", aws.ToString(putter.input.ContentType))
}

func TestUploadFile_Error(t *testing.T) {
	u := &Uploader{Client: &fakePutter{err: errors.New("denied")}, Bucket: "docs", Region: "r"}
	_, err := u.UploadFile(context.Background(), strings.NewReader("x"), "k", "text/plain")
	assert.ErrorContains(t, err, "denied")
}
