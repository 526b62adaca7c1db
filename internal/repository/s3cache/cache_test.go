package s3cache

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbcarchdev/patchwork/internal/domain"
	"github.com/bbcarchdev/patchwork/internal/domain/identifier"
	"github.com/bbcarchdev/patchwork/internal/domain/request"
)

const id = identifier.ID("65983a1410ef49e2a3e591f90291a2e0")

type mockS3 struct {
	objects map[string]string
	getErr  error
	headErr error
	keys    []string
}

func (m *mockS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.keys = append(m.keys, aws.ToString(in.Key))
	if m.getErr != nil {
		return nil, m.getErr
	}
	body, ok := m.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("no such key")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func (m *mockS3) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, m.headErr
}

func newRequest() *request.Request {
	return request.New(request.Options{Root: "http://example.com", Path: "/" + string(id), DefaultLimit: 25})
}

const payload = `<http://example.com/65983a1410ef49e2a3e591f90291a2e0#id> <http://www.w3.org/2000/01/rdf-schema#label> "Cats"@en <http://example.com/65983a1410ef49e2a3e591f90291a2e0> .
`

func TestItem_Hit(t *testing.T) {
	m := &mockS3{objects: map[string]string{string(id): payload}}
	req := newRequest()

	require.NoError(t, newCache(m, "spindle", 0).Item(context.Background(), req, id))
	assert.Equal(t, 1, req.Model.Len())
	assert.Equal(t, []string{string(id)}, m.keys)
}

func TestItem_Miss(t *testing.T) {
	err := newCache(&mockS3{}, "spindle", 0).Item(context.Background(), newRequest(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItem_NotNormalizedSkipsIO(t *testing.T) {
	m := &mockS3{}
	err := newCache(m, "spindle", 0).Item(context.Background(), newRequest(), identifier.ID("abc"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, m.keys)
}

func TestItem_TransportError(t *testing.T) {
	m := &mockS3{getErr: errors.New("dial tcp: connection refused")}
	err := newCache(m, "spindle", 0).Item(context.Background(), newRequest(), id)
	assert.ErrorIs(t, err, domain.ErrBackend)
	assert.Equal(t, 500, domain.Status(err))
}

func TestItem_FetchLimit(t *testing.T) {
	big := strings.Repeat(payload, 20)
	m := &mockS3{objects: map[string]string{string(id): big}}
	err := newCache(m, "spindle", 1).Item(context.Background(), newRequest(), id)
	assert.ErrorIs(t, err, domain.ErrBackend)
}

func TestItem_ParseFailure(t *testing.T) {
	m := &mockS3{objects: map[string]string{string(id): "garbage garbage\n"}}
	err := newCache(m, "spindle", 0).Item(context.Background(), newRequest(), id)
	assert.ErrorIs(t, err, domain.ErrBackend)
}

func TestItem_CorruptTailLeavesModelEmpty(t *testing.T) {
	m := &mockS3{objects: map[string]string{string(id): payload + "garbage garbage\n"}}
	req := newRequest()

	err := newCache(m, "spindle", 0).Item(context.Background(), req, id)
	assert.ErrorIs(t, err, domain.ErrBackend)
	assert.Zero(t, req.Model.Len())
}

func TestPing(t *testing.T) {
	assert.NoError(t, newCache(&mockS3{}, "spindle", 0).Ping(context.Background()))
	assert.Error(t, newCache(&mockS3{headErr: errors.New("forbidden")}, "spindle", 0).Ping(context.Background()))
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}

func TestNewCache_DefaultLimit(t *testing.T) {
	c := newCache(&mockS3{}, "b", 0)
	assert.Equal(t, int64(DefaultFetchLimit*1024), c.limit)
}
