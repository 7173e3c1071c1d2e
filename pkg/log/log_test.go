package log

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WithFieldsFiltraRuidoEmDesenvolvimento(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		wantNoisy bool
	}{
		{"desenvolvimento", "development", false},
		{"produção", "production", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", tt.env)
			hook := test.NewGlobal()
			defer hook.Reset()

			l := &logger{entry: logrus.NewEntry(logrus.StandardLogger())}
			l.WithFields(Fields{"path": "/v1/ads/overview", "user_agent": "curl"}).Info("requisição")

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, "/v1/ads/overview", entry.Data["path"])
			_, hasNoisy := entry.Data["user_agent"]
			assert.Equal(t, tt.wantNoisy, hasNoisy)
		})
	}
}

func TestForContext_IncluiCorrelationID(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	hook := test.NewGlobal()
	defer hook.Reset()
	L = &logger{entry: logrus.NewEntry(logrus.StandardLogger())}

	ctx, correlationID := WithCorrelationID(context.Background())
	ForContext(ctx).Info("com correlação")

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, correlationID, hook.LastEntry().Data[correlationIDField])
	assert.Equal(t, correlationID, GetCorrelationID(ctx))
	assert.Empty(t, GetCorrelationID(context.Background()))
}

func TestConfigure(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	defer logrus.SetLevel(logrus.InfoLevel)

	require.NoError(t, Configure("warn"))
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())

	assert.Error(t, Configure("verboso"))
}
