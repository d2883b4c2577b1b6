package metric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameMarshal(t *testing.T) {
	tt := []struct {
		name string
		n    string
		md   map[string]string
		exp  string
	}{
		{name: "no metadata", n: "cpk", exp: "cpk"},
		{name: "metadata", n: "cpk", md: map[string]string{"characteristic": "diameter", "line": "3"}, exp: "cpk[characteristic=diameter line=3]"},
		{name: "metadata spaces", n: "cpk", md: map[string]string{"line": "3", "characteristic": "bore diameter"}, exp: "cpk[characteristic=\"bore diameter\" line=3]"},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			n := NewName(tc.n, tc.md)
			assert.Equal(t, tc.exp, n.String())
		})
	}
}

func TestNameWith(t *testing.T) {
	tt := []struct {
		name  string
		key   string
		value string
		exp   map[string]string
	}{
		{name: "no replacement", key: "test", value: "shapiro-wilk", exp: map[string]string{"characteristic": "d", "test": "shapiro-wilk"}},
		{name: "replacement", key: "characteristic", value: "e", exp: map[string]string{"characteristic": "e"}},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			base := NewName("normality_p", map[string]string{"characteristic": "d"})
			n := base.With(tc.key, tc.value)
			assert.Equal(t, metadata(tc.exp), n.md)
			// original is never modified
			assert.Equal(t, metadata{"characteristic": "d"}, base.md)
		})
	}
}

func TestNameRename(t *testing.T) {
	n := NewName("cp", map[string]string{"characteristic": "d"}).Rename("cpk")
	assert.Equal(t, "cpk[characteristic=d]", n.String())
	assert.Equal(t, "cpk", n.Base())
	assert.Equal(t, []interface{}{"characteristic", "d"}, n.Keyvals())
}
