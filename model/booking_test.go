package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBookingState(t *testing.T) {
	cases := []struct {
		in      string
		want    BookingState
		wantErr bool
	}{
		{"", StateAll, false},
		{"ALL", StateAll, false},
		{"current", StateCurrent, false},
		{"Past", StatePast, false},
		{"FUTURE", StateFuture, false},
		{"WAITING", StateWaiting, false},
		{"REJECTED", StateRejected, false},
		{"APPROVED", "", true},
		{"bogus", "", true},
	}
	for _, tc := range cases {
		got, err := ParseBookingState(tc.in)
		if tc.wantErr {
			require.Error(t, err, "ParseBookingState(%q)", tc.in)
			continue
		}
		require.NoError(t, err, "ParseBookingState(%q)", tc.in)
		require.Equal(t, tc.want, got, "ParseBookingState(%q)", tc.in)
	}
}
