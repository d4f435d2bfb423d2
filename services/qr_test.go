package services

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUPIQR(t *testing.T) {
	qr, err := GenerateUPIQR("doctor@upi", 500)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(qr, "data:image/png;base64,"))

	png, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(qr, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}

func TestGenerateUPIQREscapesUPIID(t *testing.T) {
	qr, err := GenerateUPIQR("dr jones@upi", 750)
	require.NoError(t, err)
	assert.NotEmpty(t, qr)
}
