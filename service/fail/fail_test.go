package fail

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	require.Equal(t, KindNotFound, KindOf(NotFound("x")))
	require.Equal(t, KindForbidden, KindOf(Forbidden("x")))
	require.Equal(t, KindInvalid, KindOf(Invalid("x")))
	require.Equal(t, KindConflict, KindOf(Conflict("x")))
	require.Equal(t, Kind(""), KindOf(errors.New("plain")))
	require.Equal(t, Kind(""), KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("saving booking: %w", Invalid("start must be before end"))
	require.Equal(t, KindInvalid, KindOf(err))
}

func TestMessagePreserved(t *testing.T) {
	require.Equal(t, "item not available", Invalid("item not available").Error())
}
