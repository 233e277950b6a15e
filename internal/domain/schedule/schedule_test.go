package schedule

import (
	"testing"
	"time"

	"github.com/oggyb/portfolio-backend/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)

func validSubmission() Submission {
	return Submission{
		Name:          "Jo Lee",
		Email:         "JO@X.COM",
		Phone:         "+1 (555) 123-4567",
		PreferredDate: "2030-06-16",
		PreferredTime: "10:30",
		Topic:         "Backend consulting",
	}
}

func TestNewCallSchedule_Defaults(t *testing.T) {
	c, err := NewCallSchedule(validSubmission(), "UTC", now)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, c.Status)
	assert.Equal(t, "UTC", c.Timezone)
	assert.Equal(t, "jo@x.com", c.Email)
	assert.Equal(t, "10:30:00", c.PreferredTime.String())
	assert.Equal(t, time.Date(2030, 6, 16, 10, 30, 0, 0, time.UTC), c.ScheduledAt())
	assert.Equal(t, now, c.CreatedAt)
	assert.Equal(t, now, c.UpdatedAt)
}

func TestNewCallSchedule_YesterdayRejected(t *testing.T) {
	s := validSubmission()
	s.PreferredDate = "2030-06-14"

	_, err := NewCallSchedule(s, "UTC", now)

	errs, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{msgDateInPast}, errs["preferred_date"])
	assert.Equal(t, []string{msgInstantInPast}, errs[validation.NonFieldErrors])
}

func TestNewCallSchedule_TodayButEarlierTimeRejected(t *testing.T) {
	s := validSubmission()
	s.PreferredDate = "2030-06-15"
	s.PreferredTime = "11:59"

	_, err := NewCallSchedule(s, "UTC", now)

	errs, ok := validation.As(err)
	require.True(t, ok)
	assert.False(t, errs.Has("preferred_date"))
	assert.True(t, errs.Has(validation.NonFieldErrors))
}

func TestNewCallSchedule_ExactlyNowRejected(t *testing.T) {
	s := validSubmission()
	s.PreferredDate = "2030-06-15"
	s.PreferredTime = "12:00:00"

	_, err := NewCallSchedule(s, "UTC", now)
	assert.Error(t, err)
}

func TestNewCallSchedule_UsesSubmittedZone(t *testing.T) {
	// 13:00 in Istanbul (UTC+3) is 10:00 UTC, already past at 12:00 UTC.
	s := validSubmission()
	s.PreferredDate = "2030-06-15"
	s.PreferredTime = "13:00"
	s.Timezone = "Europe/Istanbul"

	_, err := NewCallSchedule(s, "UTC", now)
	assert.Error(t, err)

	s.PreferredTime = "16:00"
	c, err := NewCallSchedule(s, "UTC", now)
	require.NoError(t, err)
	assert.True(t, c.ScheduledAt().Equal(time.Date(2030, 6, 15, 13, 0, 0, 0, time.UTC)))
}

func TestNewCallSchedule_FieldErrors(t *testing.T) {
	_, err := NewCallSchedule(Submission{
		Email:         "bad",
		Phone:         "12345",
		PreferredDate: "15/06/2030",
		PreferredTime: "noon",
		Timezone:      "Nowhere/City",
	}, "UTC", now)

	errs, ok := validation.As(err)
	require.True(t, ok)
	for _, f := range []string{"name", "email", "phone", "preferred_date", "preferred_time", "timezone", "topic"} {
		assert.True(t, errs.Has(f), "expected error for %s", f)
	}
	assert.False(t, errs.Has(validation.NonFieldErrors))
}

func TestNewCallSchedule_SingleLetterName(t *testing.T) {
	s := validSubmission()
	s.Name = " J "

	c, err := NewCallSchedule(s, "UTC", now)
	require.NoError(t, err)
	assert.Equal(t, "J", c.Name)
}

func TestNewCallSchedule_DottedPhoneRejected(t *testing.T) {
	s := validSubmission()
	s.Phone = "555.123.4567"

	_, err := NewCallSchedule(s, "UTC", now)
	errs, ok := validation.As(err)
	require.True(t, ok)
	assert.True(t, errs.Has("phone"))
}

func TestIsUpcoming(t *testing.T) {
	c, err := NewCallSchedule(validSubmission(), "UTC", now)
	require.NoError(t, err)

	assert.True(t, c.IsUpcoming(now))

	c.SetStatus(StatusConfirmed, now)
	assert.True(t, c.IsUpcoming(now))

	c.SetStatus(StatusCancelled, now)
	assert.False(t, c.IsUpcoming(now), "future but cancelled")

	c.SetStatus(StatusCompleted, now)
	assert.False(t, c.IsUpcoming(c.ScheduledAt()), "not strictly in the future")
	assert.False(t, c.IsUpcoming(c.ScheduledAt().Add(time.Hour)))
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" Confirmed ")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, st)
	assert.True(t, st.Open())
	assert.False(t, StatusCancelled.Open())

	_, err = ParseStatus("archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
