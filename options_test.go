package ch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chcore/ch-native/compress"
)

func TestNewOptions(t *testing.T) {
	o := NewOptions(
		WithAddress("ch.internal:9000"),
		WithCredentials("alice", "secret"),
		WithDatabase("analytics"),
		WithCompression(compress.MethodLZ4),
		WithDialTimeout(2*time.Second),
	)

	assert.Equal(t, "ch.internal:9000", o.Address)
	assert.Equal(t, "alice", o.User)
	assert.Equal(t, "secret", o.Password)
	assert.Equal(t, "analytics", o.Database)
	assert.Equal(t, compress.MethodLZ4, o.Compression)
	assert.Equal(t, 2*time.Second, o.DialTimeout)
	assert.NotNil(t, o.Logger)
}

func TestOptions_SetDefaults(t *testing.T) {
	var o Options
	o.setDefaults()

	assert.Equal(t, "localhost:9000", o.Address)
	assert.Equal(t, "default", o.Database)
	assert.Equal(t, "default", o.User)
	assert.Equal(t, DefaultVersion, o.Version)
	assert.Equal(t, 10*time.Second, o.DialTimeout)
	assert.NotNil(t, o.Logger)
}
