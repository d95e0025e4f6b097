package dateonly

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Date
		wantErr bool
	}{
		{name: "DateOnly", in: "2025-06-30", want: Date{2025, time.June, 30}},
		{name: "Trimmed", in: "  2025-01-02 ", want: Date{2025, time.January, 2}},
		{name: "TimestampKeepsWrittenDate", in: "2025-01-02T23:30:00-05:00", want: Date{2025, time.January, 2}},
		{name: "Empty", in: "", wantErr: true},
		{name: "Garbage", in: "next tuesday", wantErr: true},
		{name: "ImpossibleDay", in: "2025-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDaysUntil(t *testing.T) {
	today := MustParse("2025-03-10")

	assert.Equal(t, 0, DaysUntil(today, today))
	assert.Equal(t, 7, DaysUntil(today, MustParse("2025-03-17")))
	assert.Equal(t, -1, DaysUntil(today, MustParse("2025-03-09")))
	assert.Equal(t, 365, DaysUntil(MustParse("2025-01-01"), MustParse("2026-01-01")))
}

func TestDaysUntilFarDates(t *testing.T) {
	today := MustParse("2026-10-19")

	tests := []struct {
		name string
		to   Date
		want int
	}{
		{name: "YearOne", to: MustParse("0001-01-01"), want: -739907},
		{name: "Year2400", to: MustParse("2400-01-01"), want: 136309},
		{name: "Year9999", to: MustParse("9999-12-31"), want: 2912151},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntil(today, tt.to))
			assert.Equal(t, -tt.want, DaysUntil(tt.to, today))
			assert.Equal(t, tt.to, today.AddDays(tt.want))
		})
	}
}

func TestDaysUntilAcrossDaylightSaving(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("timezone database not available")
	}

	// 2025-03-09 is the spring-forward day in New York; the local day is 23h long.
	today := In(time.Date(2025, 3, 8, 23, 59, 0, 0, ny), nil)
	expiry := MustParse("2025-03-09")

	assert.Equal(t, 1, DaysUntil(today, expiry))
}

func TestIn(t *testing.T) {
	instant := time.Date(2025, 5, 31, 20, 0, 0, 0, time.UTC)
	shanghai := time.FixedZone("CST", 8*60*60)

	assert.Equal(t, Date{2025, time.May, 31}, In(instant, nil))
	assert.Equal(t, Date{2025, time.June, 1}, In(instant, shanghai))
}

func TestAddDays(t *testing.T) {
	assert.Equal(t, MustParse("2025-03-01"), MustParse("2025-02-28").AddDays(1))
	assert.Equal(t, MustParse("2024-12-31"), MustParse("2025-01-01").AddDays(-1))
}

func TestJSON(t *testing.T) {
	type payload struct {
		Date Date `json:"date"`
	}

	b, err := json.Marshal(payload{Date: MustParse("2025-07-04")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-07-04"}`, string(b))

	var got payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2025-12-25"}`), &got))
	assert.Equal(t, MustParse("2025-12-25"), got.Date)
}
