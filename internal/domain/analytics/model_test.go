package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDataType(t *testing.T) {
	tests := []struct {
		raw  string
		want DataType
	}{
		{"business", DataTypeBusiness},
		{"financial", DataTypeFinancial},
		{"personal", DataTypePersonal},
		{"academic", DataTypeAcademic},
		{"survey", DataTypeSurvey},
		{"operational", DataTypeOperational},
		{"marketing", DataTypeMarketing},
		{"other", DataTypeOther},
		{"", DataTypeOther},
		{"nonsense", DataTypeOther},
		{"Business", DataTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDataType(tt.raw))
		})
	}
}

func TestAllDataTypesRoundTrip(t *testing.T) {
	assert.Len(t, AllDataTypes, 8)
	for _, dt := range AllDataTypes {
		assert.Equal(t, dt, ParseDataType(string(dt)))
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
	}{
		{"processing", StatusProcessing},
		{"completed", StatusCompleted},
		{"failed", StatusFailed},
		{"", StatusCompleted},
		{"done", StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStatus(tt.raw))
		})
	}
}
