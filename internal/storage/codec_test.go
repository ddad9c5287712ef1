package storage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/vacancy-assistant/internal/vacancy"
)

func TestCodecFor(t *testing.T) {
	tests := []struct {
		format  string
		path    string
		want    string
		wantErr bool
	}{
		{"", "vacancies.json", "json", false},
		{"", "vacancies", "json", false},
		{"", "/data/vacancies.yaml", "yaml", false},
		{"", "VACANCIES.YML", "yaml", false},
		{"yaml", "vacancies.json", "yaml", false},
		{"JSON", "vacancies.yaml", "json", false},
		{"toml", "vacancies.toml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format+"|"+tt.path, func(t *testing.T) {
			codec, err := CodecFor(tt.format, tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, codec.Name())
		})
	}
}

func TestJSONCodec_DecodeKeepsNumberText(t *testing.T) {
	recs, err := JSONCodec{}.Decode([]byte(`[{"title":"Eng","salary":1000}]`))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, json.Number("1000"), recs[0]["salary"])
}

func TestJSONCodec_EncodeNilIsEmptyArray(t *testing.T) {
	data, err := JSONCodec{}.Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestJSONCodec_DecodeRejectsNonArray(t *testing.T) {
	_, err := JSONCodec{}.Decode([]byte(`{"title":"Eng"}`))
	assert.Error(t, err)

	_, err = JSONCodec{}.Decode(nil)
	assert.Error(t, err)
}

func TestYAMLCodec_EncodesNumbersUnquoted(t *testing.T) {
	data, err := YAMLCodec{}.Encode([]vacancy.Record{
		{"title": "Eng", "salary": json.Number("1500")},
	})
	require.NoError(t, err)
	assert.Contains(t, string(data), "salary: 1500\n")

	recs, err := YAMLCodec{}.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 1500, recs[0]["salary"])
}

func TestYAMLCodec_DecodeRejectsMapping(t *testing.T) {
	_, err := YAMLCodec{}.Decode([]byte("title: Eng\n"))
	assert.Error(t, err)
}
