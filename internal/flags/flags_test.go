package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		registry *Registry
		flag     string
		expected bool
	}{
		{
			name:     "known flag set to true",
			registry: New(map[string]bool{FlagLegacyReset: true}),
			flag:     FlagLegacyReset,
			expected: true,
		},
		{
			name:     "known flag set to false",
			registry: New(map[string]bool{FlagLegacyReset: false}),
			flag:     FlagLegacyReset,
			expected: false,
		},
		{
			name:     "missing flag",
			registry: New(map[string]bool{FlagAutoplay: true}),
			flag:     FlagPresenterTips,
			expected: false,
		},
		{
			name:     "nil map",
			registry: New(nil),
			flag:     FlagAutoplay,
			expected: false,
		},
		{
			name:     "nil registry",
			registry: nil,
			flag:     FlagAutoplay,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.registry.Enabled(tt.flag))
		})
	}
}

func TestRegistry_CopiesInput(t *testing.T) {
	src := map[string]bool{FlagAutoplay: true}
	r := New(src)
	src[FlagAutoplay] = false
	require.True(t, r.Enabled(FlagAutoplay))

	all := r.All()
	all[FlagAutoplay] = false
	require.True(t, r.Enabled(FlagAutoplay))
}

func TestRegistry_Unknown(t *testing.T) {
	r := New(map[string]bool{"zeta": true, FlagLegacyReset: true, "alpha": false})
	require.Equal(t, []string{"alpha", "zeta"}, r.Unknown())

	var nilReg *Registry
	require.Nil(t, nilReg.Unknown())
	require.Empty(t, nilReg.All())
}

func TestKnown(t *testing.T) {
	require.Equal(t, []string{FlagAutoplay, FlagLegacyReset, FlagPresenterTips}, Known())
}
