package strcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToLowerSnake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "name", want: "name"},
		{in: "ExpiryDate", want: "expiry_date"},
		{in: "AssetID", want: "asset_id"},
		{in: "HTTPServer", want: "http_server"},
		{in: "NotifyDays30", want: "notify_days30"},
		{in: "Day7Reminder", want: "day7_reminder"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToLowerSnake(tt.in))
		})
	}
}
