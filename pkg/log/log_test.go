package log_test

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronos-gpu/chronos/pkg/log"
)

func TestConfigure(t *testing.T) {
	tt := []struct {
		name      string
		config    *log.Config
		expectErr bool
		level     logrus.Level
	}{
		{
			name:      "defaults to info on stderr",
			config:    &log.Config{Output: "stderr"},
			expectErr: false,
			level:     logrus.InfoLevel,
		},
		{
			name:      "verbosity one is debug",
			config:    &log.Config{Verbosity: 1, Output: "stderr"},
			expectErr: false,
			level:     logrus.DebugLevel,
		},
		{
			name:      "verbosity above one is trace",
			config:    &log.Config{Verbosity: 5, Output: "stdout"},
			expectErr: false,
			level:     logrus.TraceLevel,
		},
		{
			name:      "json format",
			config:    &log.Config{Format: "json", Output: "stderr"},
			expectErr: false,
			level:     logrus.InfoLevel,
		},
		{
			name:      "invalid format",
			config:    &log.Config{Format: "yaml", Output: "stderr"},
			expectErr: true,
		},
		{
			name:      "missing output",
			config:    &log.Config{},
			expectErr: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := log.Configure(tc.config)

			if tc.expectErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.level, logrus.GetLevel())
		})
	}
}

func TestConfigureFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chronos.log")

	require.NoError(t, log.Configure(&log.Config{Output: path}))

	t.Cleanup(func() {
		_ = log.Configure(&log.Config{Output: "stderr"})
	})
}

func TestGetLogger(t *testing.T) {
	entry := log.GetLogger("manager")

	require.NotNil(t, entry)
	assert.Equal(t, "manager", entry.Data["component"])
}
