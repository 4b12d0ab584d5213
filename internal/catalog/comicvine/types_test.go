package comicvine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexInt_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValue int
		wantValid bool
	}{
		{"number", `1987`, 1987, true},
		{"string", `"1987"`, 1987, true},
		{"padded string", `" 42 "`, 42, true},
		{"float with no fraction", `12.0`, 12, true},
		{"null", `null`, 0, false},
		{"empty string", `""`, 0, false},
		{"garbage", `"19??"`, 0, false},
		{"fraction", `1.5`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				Year flexInt `json:"year"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"year":`+tt.input+`}`), &v))
			assert.Equal(t, tt.wantValue, v.Year.Value)
			assert.Equal(t, tt.wantValid, v.Year.Valid)
		})
	}
}

func TestFlexInt_Ptr(t *testing.T) {
	assert.Nil(t, flexInt{}.Ptr())

	p := flexInt{Value: 2016, Valid: true}.Ptr()
	require.NotNil(t, p)
	assert.Equal(t, 2016, *p)
}

func TestFlexInt_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A flexInt `json:"a"`
		B flexInt `json:"b"`
	}{A: flexInt{Value: 7, Valid: true}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":7,"b":null}`, string(out))
}

func TestEnvelope_HasResults(t *testing.T) {
	for raw, want := range map[string]bool{
		``:             false,
		`null`:         false,
		`{}`:           false,
		`[]`:           false,
		` [] `:         false,
		`[{"id":1}]`:   true,
		`{"id":1}`:     true,
	} {
		env := envelope{Results: json.RawMessage(raw)}
		assert.Equal(t, want, env.hasResults(), "results %q", raw)
	}
}

func TestImage(t *testing.T) {
	t.Run("nil image", func(t *testing.T) {
		var img *Image
		assert.Empty(t, img.Best())
		assert.Nil(t, img.All())
	})

	t.Run("best prefers the original", func(t *testing.T) {
		img := &Image{ThumbURL: "t", MediumURL: "m", OriginalURL: "o"}
		assert.Equal(t, "o", img.Best())
	})

	t.Run("best falls back to smaller sizes", func(t *testing.T) {
		img := &Image{OriginalURL: "  ", ThumbURL: "t"}
		assert.Equal(t, "t", img.Best())
	})

	t.Run("all skips blanks and duplicates", func(t *testing.T) {
		img := &Image{OriginalURL: "o", SuperURL: "o", MediumURL: "", ThumbURL: "t", IconURL: "i"}
		assert.Equal(t, []string{"o", "t"}, img.All())
	})
}
