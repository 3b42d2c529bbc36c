package report

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"BudgetLens/internal/audit"
	"BudgetLens/internal/export"
	"BudgetLens/internal/session"

	"github.com/gorilla/mux"
)

const sampleCSV = "Masraf Yeri Adı,İlgili 1,Kümüle Bütçe,Kümüle Fiili,Ocak Bütçe,Ocak Fiili\n" +
	"A,X,1000,900,500,400\n" +
	"B,Y,2000,2500,1000,1200\n"

func newTestRouter(t *testing.T) (*mux.Router, *session.Manager) {
	t.Helper()
	sessions := session.NewManager(time.Minute)
	rec := audit.NewRecorder(nil)
	return NewRouter(sessions, rec, export.PDFConfig{FontDir: t.TempDir()}), sessions
}

func uploadCSV(t *testing.T, router *mux.Router, csvBody string) string {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "rapor.csv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(csvBody)); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/report/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("upload status = %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			SessionID string   `json:"session_id"`
			RowCount  int      `json:"row_count"`
			Columns   []string `json:"columns"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("upload response: %v", err)
	}
	if !resp.Success || resp.Data.SessionID == "" {
		t.Fatalf("upload response = %s", rr.Body.String())
	}
	return resp.Data.SessionID
}

func postJSON(t *testing.T, router *mux.Router, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestUploadAndMetrics(t *testing.T) {
	router, _ := newTestRouter(t)
	id := uploadCSV(t, router, sampleCSV)

	rr := postJSON(t, router, "/report/"+id+"/metrics", map[string]interface{}{
		"months": []string{"Hepsi"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status = %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Data struct {
			Cumulative map[string]string `json:"cumulative"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Cumulative["total_budget"] != "3000" {
		t.Errorf("total_budget = %q, want 3000", resp.Data.Cumulative["total_budget"])
	}
	if resp.Data.Cumulative["variance"] != "-400" {
		t.Errorf("variance = %q, want -400", resp.Data.Cumulative["variance"])
	}
}

func TestGroupTotalsAllTokenOverHTTP(t *testing.T) {
	router, _ := newTestRouter(t)
	id := uploadCSV(t, router, sampleCSV)

	// The "Hepsi" sugar advertised by /report/schema works on every view, not
	// just /metrics.
	rr := postJSON(t, router, "/report/"+id+"/group-totals", map[string]interface{}{
		"group_column": "Masraf Yeri Adı",
		"months":       []string{"Hepsi"},
		"bases":        []string{"Bütçe"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("group-totals status = %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Data struct {
			Status string `json:"status"`
			Rows   []struct {
				Key    string            `json:"key"`
				Values map[string]string `json:"values"`
			} `json:"rows"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Status != "ok" || len(resp.Data.Rows) != 2 {
		t.Fatalf("group-totals = %s", rr.Body.String())
	}
	if got := resp.Data.Rows[0].Values["Toplam Bütçe"]; got != "500" {
		t.Errorf("group A Toplam Bütçe = %q, want 500", got)
	}
}

func TestUploadRejectsMissingColumns(t *testing.T) {
	router, _ := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "rapor.csv")
	fw.Write([]byte("İlgili 1,Ocak Bütçe\nA,5\n"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/report/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if !strings.Contains(rr.Body.String(), "missing_columns") {
		t.Fatalf("response = %s, want missing_columns payload", rr.Body.String())
	}
}

func TestFilterOptionsCascadeOverHTTP(t *testing.T) {
	router, _ := newTestRouter(t)
	id := uploadCSV(t, router, sampleCSV)

	rr := postJSON(t, router, "/report/"+id+"/filter-options", map[string]interface{}{
		"selections": map[string][]string{"İlgili 1": {"X"}},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("filter-options status = %d", rr.Code)
	}
	var resp struct {
		Data map[string][]string `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	// Other dimensions narrow to the selection, the selected one keeps all
	// its options.
	if got := resp.Data["Masraf Yeri Adı"]; len(got) != 1 || got[0] != "A" {
		t.Errorf("cost center options = %v, want [A]", got)
	}
	if got := resp.Data["İlgili 1"]; len(got) != 2 {
		t.Errorf("own dimension options = %v, want both values", got)
	}
}

func TestPivotEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	id := uploadCSV(t, router, sampleCSV)

	rr := postJSON(t, router, "/report/"+id+"/pivot", map[string]interface{}{
		"row_dims":   []string{"Masraf Yeri Adı"},
		"value_cols": []string{"Ocak Fiili"},
		"agg":        "sum",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("pivot status = %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Data struct {
			RowKeys []string   `json:"row_keys"`
			Cells   [][]string `json:"cells"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data.RowKeys) != 2 || resp.Data.RowKeys[0] != "A" {
		t.Errorf("row keys = %v", resp.Data.RowKeys)
	}
	if resp.Data.Cells[1][0] != "1200" {
		t.Errorf("B cell = %q, want 1200", resp.Data.Cells[1][0])
	}
}

func TestPivotRejectsUnknownAgg(t *testing.T) {
	router, _ := newTestRouter(t)
	id := uploadCSV(t, router, sampleCSV)

	rr := postJSON(t, router, "/report/"+id+"/pivot", map[string]interface{}{
		"row_dims":   []string{"Masraf Yeri Adı"},
		"value_cols": []string{"Ocak Fiili"},
		"agg":        "median",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	router, _ := newTestRouter(t)
	rr := postJSON(t, router, "/report/not-a-session/metrics", map[string]interface{}{})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestExportExcelEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	id := uploadCSV(t, router, sampleCSV)

	rr := postJSON(t, router, "/report/"+id+"/export/xlsx", map[string]interface{}{
		"months": []string{"Ocak"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("export status = %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("content type = %q", ct)
	}
	if rr.Body.Len() == 0 {
		t.Error("empty workbook body")
	}
}
