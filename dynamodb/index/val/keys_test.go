package val_test

import (
	"testing"

	"github.com/acksell/statustable/dynamodb/index/val"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFmt(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
	}{
		{"simple format", "USER#{userID}"},
		{"multiple placeholders", "ORDER#{tenant}#{id}"},
		{"constant pattern", "PROFILE"},
		{"single field", "{createdAt}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := val.Fmt(tt.pattern)
			assert.Equal(t, tt.pattern, p.String())
			assert.False(t, p.IsZero())
		})
	}
}

func TestFmt_Panics(t *testing.T) {
	for _, pattern := range []string{"", "USER#{}", "USER#{a b}"} {
		t.Run(pattern, func(t *testing.T) {
			assert.Panics(t, func() { val.Fmt(pattern) })
		})
	}
}

func TestPattern_IsConstant(t *testing.T) {
	tests := []struct {
		pattern string
		want    bool
	}{
		{"PROFILE", true},
		{"USER#{id}", false},
		{"{id}", false},
		{"PREFIX#{a}#{b}SUFFIX", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, val.Fmt(tt.pattern).IsConstant())
		})
	}
}

func TestPattern_Render(t *testing.T) {
	t.Run("substitutes fields in order", func(t *testing.T) {
		got, err := val.Fmt("{createdAt}#{id}").Render(map[string]string{
			"createdAt": "2024-01-01",
			"id":        "id1",
		})
		require.NoError(t, err)
		assert.Equal(t, "2024-01-01#id1", got)
	})

	t.Run("constant ignores fields", func(t *testing.T) {
		got, err := val.Fmt("PROFILE").Render(nil)
		require.NoError(t, err)
		assert.Equal(t, "PROFILE", got)
	})

	t.Run("missing field", func(t *testing.T) {
		_, err := val.Fmt("USER#{id}").Render(map[string]string{"other": "x"})
		assert.ErrorContains(t, err, `field "id" not provided`)
	})

	t.Run("zero pattern", func(t *testing.T) {
		_, err := val.Pattern{}.Render(nil)
		assert.Error(t, err)
	})
}

func TestPattern_Match(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    map[string]string
		ok      bool
	}{
		{"USER#{id}", "USER#u1", map[string]string{"id": "u1"}, true},
		{"{token}#{id}", "2024-01-01T00:00:00.000000000Z#abc", map[string]string{"token": "2024-01-01T00:00:00.000000000Z", "id": "abc"}, true},
		{"PROFILE", "PROFILE", map[string]string{}, true},
		{"PROFILE", "STATUS", nil, false},
		{"USER#{id}", "TEAM#u1", nil, false},
		{"{token}#{id}", "no-separator", nil, false},
		{"{a}{b}", "xy", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			got, ok := val.Fmt(tt.pattern).Match(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestPattern_MatchInvertsRender(t *testing.T) {
	p := val.Fmt("WORKLOAD#{userID}#{n}")
	fields := map[string]string{"userID": "u1", "n": "7"}

	s, err := p.Render(fields)
	require.NoError(t, err)
	got, ok := p.Match(s)
	require.True(t, ok)
	assert.Equal(t, fields, got)
}
