package lexical

import (
	"testing"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlexibleDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantNil bool
		wantErr bool
	}{
		{name: "slash MDY", input: "10/11/2025", want: "2025-10-11"},
		{name: "iso", input: "2025-10-18", want: "2025-10-18"},
		{name: "textual long", input: "October 10, 2025", want: "2025-10-10"},
		{name: "textual abbreviated", input: "Oct 10 2025", want: "2025-10-10"},
		{name: "dash DMY", input: "11-10-2025", want: "2025-10-11"},
		{name: "two digit pivot year", input: "10/11/25", want: "2025-10-11"},
		{name: "not date shaped", input: "pterional craniotomy", wantNil: true},
		{name: "impossible month", input: "13/40/2025", wantErr: true},
		{name: "empty", input: "", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFlexibleDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				var invalid *domain.InvalidDate
				assert.ErrorAs(t, err, &invalid)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Format(dateLayout))
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	got, err := NormalizeDate("October 18, 2025")
	require.NoError(t, err)
	assert.Equal(t, "2025-10-18", got)

	_, err = NormalizeDate("not a date at all")
	assert.Error(t, err)
}

func TestCompareDates(t *testing.T) {
	a, _ := ParseFlexibleDate("2025-10-10")
	b, _ := ParseFlexibleDate("2025-10-18")
	assert.Equal(t, -1, CompareDates(*a, *b))
	assert.Equal(t, 1, CompareDates(*b, *a))
	assert.Equal(t, 0, CompareDates(*a, *a))
}

func TestCalculateDaysBetween(t *testing.T) {
	a, _ := ParseFlexibleDate("2025-10-11")
	b, _ := ParseFlexibleDate("2025-10-16")
	assert.Equal(t, 5, CalculateDaysBetween(*a, *b))
	assert.Equal(t, -5, CalculateDaysBetween(*b, *a))
}
