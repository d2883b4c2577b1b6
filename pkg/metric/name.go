package metric

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-logfmt/logfmt"
)

type metadata map[string]string

// Name identifies a reported quantity such as an index or a percentage.  Optional metadata groups the values
// of one characteristic or one test.  Names are marshalled to a string using a modified logfmt, e.g.
// cpk[characteristic=diameter] or normality_p[characteristic=diameter test=shapiro-wilk]
type Name struct {
	name string
	md   metadata
}

// NewName returns a new name with a copy of the associated metadata
func NewName(name string, md map[string]string) Name {
	copied := make(metadata, len(md))
	for k, v := range md {
		copied[k] = v
	}
	return Name{name: name, md: copied}
}

// With returns a new name with the key upserted into a copy of the metadata.  The receiver is unchanged.
func (n Name) With(key, value string) Name {
	out := NewName(n.name, n.md)
	out.md[key] = value
	return out
}

// Rename returns a new name that keeps the metadata of the receiver
func (n Name) Rename(name string) Name {
	return NewName(name, n.md)
}

// Base returns the name without metadata
func (n Name) Base() string {
	return n.name
}

// String marshals the name to a string representation, such as cpk[characteristic=diameter]
func (n Name) String() string {
	md, err := MarshalText(n.md)
	if err != nil {
		md = []byte{}
	}
	return n.name + string(md)
}

// Keyvals returns the metadata as alternating keys and values in sorted key order, ready for a logfmt encoder
func (n Name) Keyvals() []interface{} {
	keys := sortedKeys(n.md)
	out := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		out = append(out, k, n.md[k])
	}
	return out
}

// MarshalText will return the metadata encoded as logfmt (key, value) pairs in sorted key order enclosed in
// brackets.  Example: [characteristic=diameter test=shapiro-wilk].  Empty metadata marshals to nothing.
func MarshalText(m metadata) ([]byte, error) {
	if len(m) == 0 {
		return []byte{}, nil
	}

	var b bytes.Buffer
	b.WriteString("[")
	e := logfmt.NewEncoder(&b)
	for _, k := range sortedKeys(m) {
		if err := e.EncodeKeyval(k, m[k]); err != nil {
			return nil, fmt.Errorf("failed to encode %s=%s: %v", k, m[k], err)
		}
	}
	b.WriteString("]")
	return b.Bytes(), nil
}

func sortedKeys(m metadata) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
