package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-15")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-15", d.String())
	assert.Equal(t, "2024-06", d.YearMonth())

	_, err = ParseDate("2024-13-01")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseDate("15/06/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2024-02")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", m.String())

	for _, bad := range []string{"", "2024", "2024-00", "2024-2-1", "24-02"} {
		_, err := ParseMonth(bad)
		assert.ErrorIs(t, err, ErrInvalidMonth, bad)
	}
}

func TestDateInMonth(t *testing.T) {
	d := NewDate(2024, 6, 30)
	assert.True(t, d.InMonth("2024-06"))
	assert.False(t, d.InMonth("2024-07"))
	assert.False(t, d.InMonth("2024-6"))
	assert.False(t, Date{}.InMonth(""))
}

func TestDateOfDropsTimeOfDay(t *testing.T) {
	d := DateOf(time.Date(2024, 6, 15, 23, 59, 59, 0, time.UTC))
	assert.True(t, NewDate(2024, 6, 15).Equal(d))
}

func TestDateJSON(t *testing.T) {
	type wrapper struct {
		Date Date `json:"date"`
	}

	data, err := json.Marshal(wrapper{Date: NewDate(2024, 2, 29)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-02-29"}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2023-01-31"}`), &w))
	assert.True(t, NewDate(2023, 1, 31).Equal(w.Date))

	require.NoError(t, json.Unmarshal([]byte(`{"date":""}`), &w))
	assert.True(t, w.Date.IsZero())

	assert.ErrorIs(t, json.Unmarshal([]byte(`{"date":"yesterday"}`), &w), ErrInvalidDate)
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"date":20240101}`), &w), ErrInvalidDate)

	data, err = json.Marshal(wrapper{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":""}`, string(data))
}
