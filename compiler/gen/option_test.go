package gen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		err := WithHeader("// Custom header")(c)

		require.NoError(t, err)
		assert.Equal(t, "// Custom header", c.Header)
	})

	t.Run("empty header is allowed", func(t *testing.T) {
		c := &Config{Header: "existing"}
		err := WithHeader("")(c)

		require.NoError(t, err)
		assert.Equal(t, "", c.Header)
	})
}

func TestWithLogger(t *testing.T) {
	t.Run("sets logger", func(t *testing.T) {
		l := zap.NewExample()
		c := &Config{}
		require.NoError(t, WithLogger(l)(c))
		assert.Same(t, l, c.Logger)
	})

	t.Run("nil logger", func(t *testing.T) {
		err := WithLogger(nil)(&Config{})
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestWithSnapshotFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{SnapshotYAML, false},
		{SnapshotMsgpack, false},
		{"json", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			c := &Config{}
			err := WithSnapshotFormat(tt.format)(c)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.format, c.SnapshotFormat)
		})
	}
}

func TestWithRunIDAndClock(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithRunID("run-1")(c))
	assert.Equal(t, "run-1", c.RunID)
	assert.True(t, IsConfigError(WithRunID("")(c)))

	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, WithClock(func() time.Time { return now })(c))
	assert.Equal(t, now, c.Now())
	assert.True(t, IsConfigError(WithClock(nil)(c)))
}

func TestWithFeatures(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithFeatures(FeatureSnapshot)(c))
	require.Len(t, c.Features, 1)
	assert.Equal(t, "schema/snapshot", c.Features[0].Name)
}

func TestFeatureEnabled(t *testing.T) {
	c := MustNewConfig()
	enabled, err := c.FeatureEnabled(FeatureSnapshot.Name)
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, c.Apply(WithFeatures(FeatureSnapshot)))
	enabled, err = c.FeatureEnabled(FeatureSnapshot.Name)
	require.NoError(t, err)
	assert.True(t, enabled)

	_, err = c.FeatureEnabled("unknown")
	assert.True(t, IsConfigError(err))
}

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := NewConfig()
		require.NoError(t, err)
		assert.NotNil(t, c.Logger)
		assert.Equal(t, SnapshotYAML, c.SnapshotFormat)
		assert.NotEmpty(t, c.RunID)
		assert.Equal(t, Version, c.Version)
		assert.False(t, c.EmbedPassword)
	})

	t.Run("run ids differ", func(t *testing.T) {
		a, b := MustNewConfig(), MustNewConfig()
		assert.NotEqual(t, a.RunID, b.RunID)
	})

	t.Run("first error", func(t *testing.T) {
		_, err := NewConfig(WithRunID(""), WithLogger(nil))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RunID")
	})

	t.Run("must panics", func(t *testing.T) {
		assert.Panics(t, func() { MustNewConfig(WithSnapshotFormat("xml")) })
	})
}

func TestApplyAll(t *testing.T) {
	c := &Config{}
	err := c.ApplyAll(WithRunID(""), WithLogger(nil), WithEmbedPassword(true))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RunID")
	assert.Contains(t, err.Error(), "Logger")
	assert.True(t, c.EmbedPassword)
}
