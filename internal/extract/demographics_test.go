package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDemographics(t *testing.T) {
	text := "55M, MRN: 12345678, admitted for subarachnoid hemorrhage. Attending: Dr. Sarah Connor."
	d, confidence := ExtractDemographics(text)

	require.NotNil(t, d.Age)
	assert.Equal(t, 55, *d.Age)
	assert.Equal(t, "M", d.Sex)
	assert.Equal(t, "12345678", d.MRN)
	assert.Equal(t, "Sarah Connor", d.AttendingPhysician)
	assert.Greater(t, confidence, 0.0)
}

func TestExtractDemographics_RejectsDateLikeMRN(t *testing.T) {
	text := "DOB: 01/15/1970. MRN: 01152024 noted in error."
	d, _ := ExtractDemographics(text)
	assert.Empty(t, d.MRN)
}
