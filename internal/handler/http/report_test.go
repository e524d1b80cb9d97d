package http

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReportHandler_GetDailyReport(t *testing.T) {
	s := newTestServer(t)
	_, managerToken := s.createEmployee(t, "Mona", "mona@hrms.com", employee.RoleManager)
	_, johnToken := s.createEmployee(t, "John Doe", "john@hrms.com", employee.RoleEmployee)
	s.createEmployee(t, "Jane Roe", "jane@hrms.com", employee.RoleEmployee)

	rec := s.do(t, http.MethodPost, "/api/v1/attendance/check-in", johnToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/attendance/daily-report/2026-03-02", managerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataOf(t, rec)
	assert.Equal(t, "2026-03-02", data["date"])
	assert.Equal(t, float64(3), data["total_employees"])
	assert.Equal(t, float64(1), data["present"])
	assert.Equal(t, float64(2), data["absent"])
	attendances := data["attendances"].([]interface{})
	require.Len(t, attendances, 1)
	first := attendances[0].(map[string]interface{})
	emp := first["employee"].(map[string]interface{})
	assert.Equal(t, "John Doe", emp["name"])
}

func TestReportHandler_GetDailyReport_InvalidDate(t *testing.T) {
	s := newTestServer(t)
	_, managerToken := s.createEmployee(t, "Mona", "mona@hrms.com", employee.RoleManager)

	rec := s.do(t, http.MethodGet, "/api/v1/attendance/daily-report/2026-13-45", managerToken, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCodeOf(t, rec))
}

func TestReportHandler_GetAttendanceReport(t *testing.T) {
	s := newTestServer(t)
	_, managerToken := s.createEmployee(t, "Mona", "mona@hrms.com", employee.RoleManager)
	john, johnToken := s.createEmployee(t, "John Doe", "john@hrms.com", employee.RoleEmployee)
	_, janeToken := s.createEmployee(t, "Jane Roe", "jane@hrms.com", employee.RoleEmployee)

	// Day one: both check in. Day two: only John.
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/attendance/check-in", johnToken, nil).Code)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/attendance/check-in", janeToken, nil).Code)
	s.clock.Advance(24 * time.Hour)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/attendance/check-in", johnToken, nil).Code)

	t.Run("camelCase parameters, newest day first", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/attendance/report?startDate=2026-03-02&endDate=2026-03-03", managerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rows := decodeBody(t, rec)["data"].([]interface{})
		require.Len(t, rows, 3)
		assert.Equal(t, "2026-03-03", rows[0].(map[string]interface{})["date"])
		assert.Equal(t, "2026-03-02", rows[1].(map[string]interface{})["date"])
		assert.Equal(t, "2026-03-02", rows[2].(map[string]interface{})["date"])
	})

	t.Run("snake_case employee filter", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/attendance/report?start_date=2026-03-02&end_date=2026-03-03&employee_id="+john.ID, managerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rows := decodeBody(t, rec)["data"].([]interface{})
		require.Len(t, rows, 2)
		for _, row := range rows {
			assert.Equal(t, john.ID, row.(map[string]interface{})["employee_id"])
		}
	})

	t.Run("empty range answers an empty list", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/attendance/report?startDate=2025-01-01&endDate=2025-01-31", managerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rows := decodeBody(t, rec)["data"].([]interface{})
		assert.Empty(t, rows)
	})

	t.Run("end before start", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/attendance/report?startDate=2026-03-03&endDate=2026-03-02", managerToken, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("missing dates", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/attendance/report", managerToken, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestReportHandler_ExportAttendanceReport(t *testing.T) {
	s := newTestServer(t)
	_, managerToken := s.createEmployee(t, "Mona", "mona@hrms.com", employee.RoleManager)
	_, johnToken := s.createEmployee(t, "John Doe", "john@hrms.com", employee.RoleEmployee)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/attendance/check-in", johnToken, nil).Code)

	rec := s.do(t, http.MethodGet, "/api/v1/attendance/report/export?startDate=2026-03-01&endDate=2026-03-02", managerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance_2026-03-01_2026-03-02.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "John Doe", rows[1][2])
}

func TestReportHandler_ExportInvalidRange(t *testing.T) {
	s := newTestServer(t)
	_, managerToken := s.createEmployee(t, "Mona", "mona@hrms.com", employee.RoleManager)

	rec := s.do(t, http.MethodGet, "/api/v1/attendance/report/export?startDate=bad&endDate=2026-03-02", managerToken, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
