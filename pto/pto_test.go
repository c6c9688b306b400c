package pto

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/ptoctl/rippling"
)

// withFixture serves testdata/<fixture>.json for exactly one method and
// request URI and answers 501 for anything else.
func withFixture(t *testing.T, method, requestURI, fixture string) *httptest.Server {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", fixture+".json"))
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method || r.URL.RequestURI() != requestURI {
			http.Error(w, "unexpected request "+r.Method+" "+r.URL.RequestURI(), http.StatusNotImplemented)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}))
	t.Cleanup(server.Close)
	return server
}

func session(baseURL string) *rippling.Session {
	s := rippling.NewSession(rippling.New(baseURL, zerolog.Nop()), "access-token")
	s.SetTenant("some-company-id", "some-role-id")
	return s
}

func TestLeaveRequests(t *testing.T) {
	server := withFixture(t, http.MethodGet, "/pto/api/leave_requests/?role=some-role-id", "leave_requests")

	data, err := LeaveRequests(context.Background(), session(server.URL))
	require.NoError(t, err)
	require.Len(t, data, 2)

	var days []string
	for _, r := range data {
		days = append(days, r.StartDate.String())
	}
	assert.Equal(t, []string{"2022-06-09", "2022-05-23"}, days)

	assert.Equal(t, NewDate(2022, time.June, 9), data[0].StartDate)
	assert.Equal(t, "APPROVED", data[0].Status)
	assert.Equal(t, "Vacation", data[0].LeaveTypeName)
	require.NotNil(t, data[0].IsDeleted)
	assert.False(t, data[0].Deleted())
	assert.Nil(t, data[1].IsDeleted)
	assert.Equal(t, 5, data[1].Days())
}

func TestLeaveRequestsRequiresRole(t *testing.T) {
	s := rippling.NewSession(rippling.New("http://localhost:1", zerolog.Nop()), "access-token")
	_, err := LeaveRequests(context.Background(), s)
	assert.ErrorIs(t, err, ErrNoRole)
}

func TestHolidayCalendar(t *testing.T) {
	bodies := make(chan HolidayCalendarQuery, 1)
	fixture, err := os.ReadFile(filepath.Join("testdata", "holiday_calendar.json"))
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/pto/api/get_holiday_calendar/" {
			http.Error(w, "unexpected request", http.StatusNotImplemented)
			return
		}
		var body HolidayCalendarQuery
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		bodies <- body
		_, _ = w.Write(fixture)
	}))
	defer server.Close()

	data, err := HolidayCalendar(context.Background(), session(server.URL))
	require.NoError(t, err)
	assert.Len(t, data, 9)
	assert.Equal(t, HolidayCalendarQuery{AllowTimeAdmin: false, OnlyPayable: false}, <-bodies)

	y2023, ok := FindYear(data, 2023)
	require.True(t, ok)
	require.Len(t, y2023.Holidays, 13)

	var days []string
	for _, h := range y2023.Holidays[:3] {
		days = append(days, h.StartDate.String())
	}
	assert.Equal(t, []string{"2023-01-01", "2023-01-06", "2023-04-07"}, days)

	_, ok = FindYear(data, 1999)
	assert.False(t, ok)
}

func TestHolidayCalendarBodyIsSent(t *testing.T) {
	bodies := make(chan []byte, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		bodies <- raw
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := HolidayCalendar(context.Background(), session(server.URL))
	require.NoError(t, err)
	assert.JSONEq(t, `{"allow_time_admin": false, "only_payable": false}`, string(<-bodies))
}

func TestEndpointErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pto/api/leave_requests/":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Not found."}`))
		default:
			_, _ = w.Write([]byte(`{"unexpected":"shape"}`))
		}
	}))
	defer server.Close()

	t.Run("rejected status", func(t *testing.T) {
		_, err := LeaveRequests(context.Background(), session(server.URL))
		require.Error(t, err)
		assert.ErrorIs(t, err, rippling.ErrRejectedStatus)
		assert.NotErrorIs(t, err, rippling.ErrDecode)

		var apiErr *rippling.Error
		require.ErrorAs(t, err, &apiErr)
		assert.True(t, apiErr.IsNotFound())
		assert.Equal(t, `{"detail":"Not found."}`, apiErr.Body)
	})

	t.Run("decode failure", func(t *testing.T) {
		_, err := HolidayCalendar(context.Background(), session(server.URL))
		require.Error(t, err)
		assert.ErrorIs(t, err, rippling.ErrDecode)
		assert.NotErrorIs(t, err, rippling.ErrRejectedStatus)
	})
}

func TestDate(t *testing.T) {
	t.Run("unmarshal", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`"2023-04-07"`), &d))
		assert.Equal(t, "2023-04-07", d.String())
		assert.Equal(t, time.April, d.Month())
	})

	t.Run("null leaves zero value", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`null`), &d))
		assert.True(t, d.IsZero())
	})

	t.Run("invalid", func(t *testing.T) {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(`"07/04/2023"`), &d))
		assert.Error(t, json.Unmarshal([]byte(`20230407`), &d))
	})

	t.Run("marshal", func(t *testing.T) {
		data, err := json.Marshal(NewDate(2022, time.May, 23))
		require.NoError(t, err)
		assert.Equal(t, `"2022-05-23"`, string(data))
	})
}

func TestDays(t *testing.T) {
	tests := []struct {
		name       string
		start, end Date
		want       int
	}{
		{"single day", NewDate(2023, 1, 1), NewDate(2023, 1, 1), 1},
		{"week", NewDate(2022, 5, 23), NewDate(2022, 5, 27), 5},
		{"across months", NewDate(2022, 5, 30), NewDate(2022, 6, 2), 4},
		{"inverted", NewDate(2022, 6, 2), NewDate(2022, 5, 30), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Holiday{StartDate: tt.start, EndDate: tt.end}
			l := LeaveRequest{StartDate: tt.start, EndDate: tt.end}
			assert.Equal(t, tt.want, h.Days())
			assert.Equal(t, tt.want, l.Days())
		})
	}
}
