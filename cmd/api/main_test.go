package main

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureLogger_NaoMudaDiretorio(t *testing.T) {
	before, err := os.Getwd()
	require.NoError(t, err)

	configureLogger()

	after, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	formatter, ok := logrus.StandardLogger().Formatter.(*logrus.TextFormatter)
	require.True(t, ok)
	assert.True(t, formatter.FullTimestamp)
}
