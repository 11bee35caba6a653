package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Chaining(t *testing.T) {
	f := Filter{}.
		Where("status", "published").
		WhereOp("views", OpGte, 100).
		WhereOp("views", OpLt, 1000)

	assert.Equal(t, "published", f["status"])
	obj, ok := f["views"].(FilterObject)
	require.True(t, ok)
	assert.Equal(t, 100, obj[OpGte])
	assert.Equal(t, 1000, obj[OpLt])
}

func TestFilter_OrAnd(t *testing.T) {
	f := Filter{}.Or(
		Filter{}.Where("a", 1),
		Filter{}.Where("b", 2),
	)
	branches, ok := f["$or"].([]Filter)
	require.True(t, ok)
	assert.Len(t, branches, 2)
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"scalar equality", `{"status":"published"}`, false},
		{"operator object", `{"views":{"$gte":10,"$lt":100}}`, false},
		{"like", `{"name":{"$like":"%john%"}}`, false},
		{"nested or", `{"$or":[{"a":1},{"b":{"$neq":2}}]}`, false},
		{"nested and", `{"$and":[{"a":1}]}`, false},
		{"unknown operator", `{"views":{"$between":[1,2]}}`, true},
		{"or without array", `{"$or":{"a":1}}`, true},
		{"not json", `nope`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFilter([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, f)
		})
	}
}

func TestParseFilter_OperatorObjectShape(t *testing.T) {
	f, err := ParseFilter([]byte(`{"views":{"$gte":10}}`))
	require.NoError(t, err)
	obj, ok := f["views"].(FilterObject)
	require.True(t, ok)
	assert.Equal(t, float64(10), obj[OpGte])
}
