package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/wxq/internal/domain"
)

func TestLookupErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  *domain.LookupError
		want string
	}{
		{
			name: "validation",
			err:  domain.NewValidationError(),
			want: "Please enter a city name",
		},
		{
			name: "transport",
			err:  domain.NewTransportError(errors.New("connection refused")),
			want: "Failed to fetch weather data: connection refused",
		},
		{
			name: "http status",
			err:  domain.NewHTTPError(404),
			want: "Failed to fetch weather data: Error: 404",
		},
		{
			name: "decode",
			err:  domain.NewDecodeError(errors.New("invalid character 'o' in literal null (expecting 'u')")),
			want: "Failed to parse JSON response: invalid character 'o' in literal null (expecting 'u')",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Message())
			assert.Equal(t, tt.want, domain.MessageFor(tt.err))
		})
	}
}

func TestLookupErrorUnwrapAndKind(t *testing.T) {
	cause := errors.New("dial tcp: lookup nowhere: no such host")
	wrapped := fmt.Errorf("lookup: %w", domain.NewTransportError(cause))

	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, domain.FailureTransport, domain.KindOf(wrapped))

	var lookupErr *domain.LookupError
	require.ErrorAs(t, wrapped, &lookupErr)
	assert.Equal(t, 0, lookupErr.StatusCode)

	assert.Equal(t, domain.FailureHTTP, domain.KindOf(domain.NewHTTPError(500)))
	assert.Equal(t, domain.FailureTransport, domain.KindOf(errors.New("plain")))
	assert.Equal(t, domain.FailureKind(""), domain.KindOf(nil))
}

func TestMessageForUntypedError(t *testing.T) {
	assert.Equal(t, "", domain.MessageFor(nil))
	assert.Equal(t, "Failed to fetch weather data: boom", domain.MessageFor(errors.New("boom")))
}

func TestOutcomeApply(t *testing.T) {
	state := domain.QueryState{InputText: "London", ErrorMessage: "old"}

	domain.Outcome{Result: domain.WeatherResult{City: "London", Temperature: 15, Condition: "Cloudy"}}.Apply(&state)
	require.True(t, state.HasResult())
	assert.False(t, state.HasError())
	assert.Equal(t, "London", state.Result.City)

	domain.Outcome{Err: domain.NewHTTPError(503)}.Apply(&state)
	assert.False(t, state.HasResult())
	assert.Contains(t, state.ErrorMessage, "503")
	assert.Equal(t, "London", state.InputText)
}

func TestQueryStateCloneDoesNotAlias(t *testing.T) {
	original := domain.QueryState{Result: &domain.WeatherResult{City: "Oslo", Humidity: domain.Float(70)}}
	clone := original.Clone()

	*clone.Result.Humidity = 10
	clone.Result.City = "Bergen"

	assert.Equal(t, 70.0, *original.Result.Humidity)
	assert.Equal(t, "Oslo", original.Result.City)
}
