package aws

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAWS struct {
	mu      sync.Mutex
	targets []string
	paths   []string
	bodies  []string
}

func (f *fakeAWS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	defer f.mu.Unlock()

	if target := r.Header.Get("X-Amz-Target"); target != "" {
		f.targets = append(f.targets, target)
		w.Header().Set("Content-Type", "application/x-amz-json-1.1")
		if strings.Contains(string(body), `"missing"`) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"__type":"ParameterNotFound","message":"not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"Parameter":{"Name":"relay-secret","Type":"SecureString","Value":"s3cr3t","Version":1}}`))
		return
	}

	f.paths = append(f.paths, r.URL.Path)
	f.bodies = append(f.bodies, string(body))
	w.WriteHeader(http.StatusOK)
}

func newTestController(t *testing.T, handler http.Handler) *Controller {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := aws.Config{
		Region:                     "eu-west-1",
		Credentials:                credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
		BaseEndpoint:               aws.String(srv.URL),
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
	}
	ctl, err := NewController(
		WithConfig(&cfg),
		WithContext(context.Background()),
		withClock(func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }))
	require.NoError(t, err)
	return ctl
}

func TestController_GetSecret(t *testing.T) {
	fake := &fakeAWS{}
	ctl := newTestController(t, fake)

	value, err := ctl.GetSecret(context.Background(), "relay-secret", true)
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, "s3cr3t", *value)
	assert.Equal(t, []string{"AmazonSSM.GetParameter"}, fake.targets)

	_, err = ctl.GetSecret(context.Background(), "missing", true)
	assert.Error(t, err)
}

func TestController_PutS3Object(t *testing.T) {
	fake := &fakeAWS{}
	ctl := newTestController(t, fake)

	key, err := ctl.PutS3Object(context.Background(), "dumps", []byte("not json"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "2026-10-19T12:00:00Z."), key)

	require.Len(t, fake.paths, 1)
	assert.Equal(t, "/dumps/"+key, fake.paths[0])
	assert.Equal(t, "not json", fake.bodies[0])

	_, err = ctl.PutS3Object(context.Background(), "", []byte("x"))
	assert.Error(t, err)
}
