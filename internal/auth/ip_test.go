package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeIP(t *testing.T) {
	short, err := CanonicalizeIP("2001:db8::1")
	require.NoError(t, err)
	long, err := CanonicalizeIP("2001:db8:0:0:0:0:0:1")
	require.NoError(t, err)
	assert.Equal(t, short, long)

	v4, err := CanonicalizeIP("192.168.1.10")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.10", v4)

	_, err = CanonicalizeIP("not-an-ip")
	assert.Error(t, err)
}

func TestCanonicalizeIPsFailsOnAnyInvalid(t *testing.T) {
	_, err := CanonicalizeIPs([]string{"10.0.0.1", "banana"})
	assert.Error(t, err)
}

func TestIsIPAllowed(t *testing.T) {
	assert.True(t, IsIPAllowed("10.0.0.1", nil))
	assert.True(t, IsIPAllowed("10.0.0.1", []string{"10.0.0.1", "10.0.0.2"}))
	assert.False(t, IsIPAllowed("10.0.0.3", []string{"10.0.0.1", "10.0.0.2"}))
}
