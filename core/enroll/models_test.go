package enroll

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func TestFlexIDsUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    FlexIDs
		wantErr bool
	}{
		{name: "scalar", data: `"m1"`, want: FlexIDs{"m1"}},
		{name: "empty scalar", data: `""`, want: nil},
		{name: "array", data: `["m1","m2"]`, want: FlexIDs{"m1", "m2"}},
		{name: "empty array", data: `[]`, want: FlexIDs{}},
		{name: "null", data: `null`, want: nil},
		{name: "number", data: `42`, wantErr: true},
		{name: "object", data: `{"id":"m1"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got FlexIDs
			err := json.Unmarshal([]byte(tt.data), &got)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlexIDsFirst(t *testing.T) {
	assert.Equal(t, "", FlexIDs(nil).First())
	assert.Equal(t, "", FlexIDs{}.First())
	assert.Equal(t, "m1", FlexIDs{"m1", "m2"}.First())
}

func TestClaimsFirstProgram(t *testing.T) {
	tests := []struct {
		name   string
		claims Claims
		want   string
	}{
		{name: "empty", claims: Claims{}, want: ""},
		{
			name:   "single id wins over array",
			claims: Claims{ProgramID: null.StringFrom("p1"), Programs: []ProgramClaim{{ID: "p2"}}},
			want:   "p1",
		},
		{
			name:   "array fallback",
			claims: Claims{Programs: []ProgramClaim{{ID: "p2"}, {ID: "p3"}}},
			want:   "p2",
		},
		{
			name:   "invalid single id ignored",
			claims: Claims{ProgramID: null.String{}, Programs: []ProgramClaim{{ID: "p2"}}},
			want:   "p2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.claims.FirstProgram())
		})
	}
}
