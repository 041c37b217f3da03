package reflectx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want Tag
	}{
		{
			name: "empty",
			raw:  "",
			want: Tag{},
		},
		{
			name: "name only",
			raw:  "postgres",
			want: Tag{Name: "postgres"},
		},
		{
			name: "name with label",
			raw:  "postgres,label=primary",
			want: Tag{Name: "postgres", Labels: []string{"primary"}},
		},
		{
			name: "label only",
			raw:  ",label=audit",
			want: Tag{Labels: []string{"audit"}},
		},
		{
			name: "multiple labels",
			raw:  "cache,label=fast,label=local",
			want: Tag{Name: "cache", Labels: []string{"fast", "local"}},
		},
		{
			name: "whitespace trimmed",
			raw:  " cache , label=fast ",
			want: Tag{Name: "cache", Labels: []string{"fast"}},
		},
		{
			name: "trailing comma ignored",
			raw:  "cache,",
			want: Tag{Name: "cache"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseTag(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTag_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "option without value", raw: "cache,primary"},
		{name: "empty label value", raw: "cache,label="},
		{name: "unknown option", raw: "cache,scope=singleton"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseTag(tt.raw)
			assert.Error(t, err)
		})
	}
}
