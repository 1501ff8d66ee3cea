package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"attendlog/internal/analysis"
	"attendlog/internal/annotator"
	"attendlog/internal/model"
	"attendlog/internal/store"
)

var testRoster = model.Roster{
	{Row: 9, Name: "harizan", Department: model.DepartmentAdmin},
	{Row: 15, Name: "hajar", Department: model.DepartmentClinical},
}

func newTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	st, err := store.New(filepath.Join(dir, "attendlog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	svc := analysis.NewService(analysis.NewOrchestrator(testRoster, annotator.DefaultOptions(), nil), st, nil)
	h := NewHandler(svc, st, dir, nil)

	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	return r, st
}

func logWorkbook(t *testing.T, sheets int) []byte {
	t.Helper()
	wb := excelize.NewFile()
	for i := 1; i < sheets; i++ {
		_, err := wb.NewSheet("Logs")
		require.NoError(t, err)
		// 2024-06-04 周二
		require.NoError(t, wb.SetCellValue("Logs", "D9", "08:40\n17:05"))
	}
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func multipartBody(t *testing.T, filename string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestAnalyze_ReturnsWorkbook(t *testing.T) {
	r, st := newTestRouter(t)

	body, ct := multipartBody(t, "june.xlsx", logWorkbook(t, 2), map[string]string{"year": "2024", "month": "6"})
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	require.Contains(t, w.Header().Get("Content-Disposition"), "Analysis_6_2024.xlsx")
	require.Equal(t, "1", w.Header().Get("X-Late-Total"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, []string{"Logs Analyzed"}, f.GetSheetList())
	v, err := f.GetCellValue("Logs Analyzed", "AF9")
	require.NoError(t, err)
	require.Equal(t, "1", v)

	run, err := st.GetRun(w.Header().Get("X-Run-Id"))
	require.NoError(t, err)
	require.Equal(t, model.RunStatusSuccess, run.Status)
	require.Equal(t, 1, run.LateTotal)
}

func TestAnalyze_MissingSecondSheet(t *testing.T) {
	r, st := newTestRouter(t)

	body, ct := multipartBody(t, "one.xlsx", logWorkbook(t, 1), map[string]string{"year": "2024", "month": "6"})
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), model.ErrLogSheetMissing.Error())

	runs, err := st.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, model.RunStatusFailed, runs[0].Status)
}

func TestAnalyze_BadInput(t *testing.T) {
	r, _ := newTestRouter(t)

	cases := []struct {
		name     string
		filename string
		fields   map[string]string
	}{
		{"bad month", "june.xlsx", map[string]string{"year": "2024", "month": "13"}},
		{"bad year", "june.xlsx", map[string]string{"year": "abc", "month": "1"}},
		{"bad extension", "june.csv", map[string]string{"year": "2024", "month": "1"}},
	}
	for _, tc := range cases {
		body, ct := multipartBody(t, tc.filename, []byte("x"), tc.fields)
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code, tc.name)
	}
}

func TestAnalyzeStream_ThenDownloadOnce(t *testing.T) {
	r, _ := newTestRouter(t)

	body, ct := multipartBody(t, "june.xlsx", logWorkbook(t, 2), map[string]string{"year": "2024", "month": "6"})
	req := httptest.NewRequest(http.MethodPost, "/api/analyze/stream", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var done struct {
		Type string          `json:"type"`
		Data AnalyzeResponse `json:"data"`
	}
	for _, line := range strings.Split(w.Body.String(), "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev struct {
			Type string `json:"type"`
		}
		payload := strings.TrimPrefix(line, "data: ")
		require.NoError(t, json.Unmarshal([]byte(payload), &ev))
		if ev.Type == "done" {
			require.NoError(t, json.Unmarshal([]byte(payload), &done))
		}
	}
	require.Equal(t, "done", done.Type)
	require.Equal(t, 1, done.Data.LateTotal)
	require.True(t, strings.HasPrefix(done.Data.DownloadURL, "/api/download/"))

	dl := httptest.NewRecorder()
	r.ServeHTTP(dl, httptest.NewRequest(http.MethodGet, done.Data.DownloadURL, nil))
	require.Equal(t, http.StatusOK, dl.Code)
	require.NotZero(t, dl.Body.Len())

	again := httptest.NewRecorder()
	r.ServeHTTP(again, httptest.NewRequest(http.MethodGet, done.Data.DownloadURL, nil))
	require.Equal(t, http.StatusNotFound, again.Code)
}

func TestStatusAndRoster(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var status StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	require.Equal(t, 2, status.StaffCount)
	require.Equal(t, 1, status.Departments["CLINICAL"])
	require.True(t, status.HistoryEnabled)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/roster", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "harizan")
}

func TestGetRun_NotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/runs/nope", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestBuildContentDisposition(t *testing.T) {
	t.Parallel()

	got := buildContentDisposition("Analysis_6_2024.xlsx")
	want := "attachment; filename=\"Analysis_6_2024.xlsx\"; filename*=UTF-8''Analysis_6_2024.xlsx"
	require.Equal(t, want, got)
}
