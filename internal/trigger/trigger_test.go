package trigger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type published struct {
	subject string
	data    string
}

type mockConn struct {
	msgs       []published
	publishErr error
	flushErr   error
	flushed    int
}

func (m *mockConn) Publish(subject string, data []byte) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.msgs = append(m.msgs, published{subject, string(data)})
	return nil
}

func (m *mockConn) FlushWithContext(context.Context) error {
	m.flushed++
	return m.flushErr
}

// --- Tests ---

const root = "http://example.com"

func TestMessage(t *testing.T) {
	tr := newTrigger(&mockConn{}, "patchwork.updates", root)

	tests := []struct {
		target string
		want   string
	}{
		{"0123456789ABCDEF0123456789abcdef", root + "/0123456789abcdef0123456789abcdef#id updated"},
		{"01234567-89ab-cdef-0123-456789abcdef", root + "/0123456789abcdef0123456789abcdef#id updated"},
		{"http://other.example/0123456789abcdef0123456789abcdef#id", root + "/0123456789abcdef0123456789abcdef#id updated"},
		{"http://dbpedia.org/resource/Cat", "http://dbpedia.org/resource/Cat updated"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Message(tt.target))
		})
	}
}

func TestUpdate(t *testing.T) {
	conn := &mockConn{}
	tr := newTrigger(conn, "patchwork.updates", root)

	require.NoError(t, tr.Update(context.Background(), "0123456789abcdef0123456789abcdef", "http://dbpedia.org/resource/Cat"))

	assert.Equal(t, []published{
		{"patchwork.updates", root + "/0123456789abcdef0123456789abcdef#id updated"},
		{"patchwork.updates", "http://dbpedia.org/resource/Cat updated"},
	}, conn.msgs)
	assert.Equal(t, 1, conn.flushed)
}

func TestUpdate_PublishError(t *testing.T) {
	conn := &mockConn{publishErr: errors.New("connection closed")}
	tr := newTrigger(conn, "patchwork.updates", root)

	err := tr.Update(context.Background(), "0123456789abcdef0123456789abcdef")
	require.Error(t, err)
	assert.Zero(t, conn.flushed)
}

func TestUpdate_FlushError(t *testing.T) {
	conn := &mockConn{flushErr: context.DeadlineExceeded}
	tr := newTrigger(conn, "patchwork.updates", root)

	err := tr.Update(context.Background(), "0123456789abcdef0123456789abcdef")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConnect_RequiresURL(t *testing.T) {
	_, err := Connect(Config{Subject: "x"})
	assert.Error(t, err)
}
