package httpclient

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientBuilder(t *testing.T) {
	logger := zerolog.Nop()
	builder := NewHTTPClientBuilder(logger)

	client, err := builder.
		WithTimeout(15 * time.Second).
		WithInsecureSkipVerify(true).
		WithHeader("Accept-Language", "en-US").
		WithHTTP2(false).
		WithConnectionPooling(10, 2, 4).
		Build()

	require.NoError(t, err)
	assert.NotNil(t, client)
	assert.Equal(t, 15*time.Second, client.config.Timeout)
	assert.True(t, client.config.InsecureSkipVerify)
	assert.Equal(t, "en-US", client.config.CustomHeaders["Accept-Language"])
	assert.False(t, client.config.EnableHTTP2)
	assert.Equal(t, 4, client.config.MaxConnsPerHost)
	assert.Nil(t, client.client.Jar)
}

func TestHTTPClientBuilder_DefaultValues(t *testing.T) {
	logger := zerolog.Nop()
	client, err := NewHTTPClientBuilder(logger).Build()
	require.NoError(t, err)

	defaults := DefaultHTTPClientConfig()

	assert.Equal(t, defaults.Timeout, client.config.Timeout)
	assert.Equal(t, 8*time.Second, client.config.Timeout)
	assert.False(t, client.config.InsecureSkipVerify)
	assert.True(t, client.config.EnableHTTP2)
}

func TestHTTPClientBuilder_InvalidProxy(t *testing.T) {
	_, err := NewHTTPClientBuilder(zerolog.Nop()).WithProxy("://bad proxy").Build()
	assert.Error(t, err)
}
