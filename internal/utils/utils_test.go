package utils_test

import (
	"testing"

	"github.com/jrsteele09/go-storefront/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToStringSlice(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{name: "decoded list", in: []any{"admin", 7, "user"}, want: []string{"admin", "user"}},
		{name: "string list", in: []string{"admin"}, want: []string{"admin"}},
		{name: "space separated", in: "openid  email", want: []string{"openid", "email"}},
		{name: "missing", in: nil, want: nil},
		{name: "wrong type", in: 42, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.ToStringSlice(tt.in))
		})
	}
}

func TestAppendUnique(t *testing.T) {
	got := utils.AppendUnique([]string{"user"}, "admin", "user", "", "admin")
	assert.Equal(t, []string{"user", "admin"}, got)
}

func TestClone(t *testing.T) {
	require.Nil(t, utils.Clone[int64](nil))

	orig := utils.Ptr(int64(5))
	cloned := utils.Clone(orig)
	*cloned = 6
	assert.Equal(t, int64(5), utils.Value(orig))
	assert.Equal(t, int64(0), utils.Value[int64](nil))
}
