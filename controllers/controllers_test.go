package controllers_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-zavuch/controllers"
	"smart-zavuch/driver"
	"smart-zavuch/models"
)

type stubChecker struct {
	allow bool
}

func (s stubChecker) IsAllowed(identifier string) bool { return s.allow }

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, driver.InitSchema(db, "sqlite3"))
	return db
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func getWithToken(t *testing.T, handler http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func validFormBody() map[string]interface{} {
	stage := func(ta, sa string) map[string]string {
		return map[string]string{"teacher_action": ta, "student_action": sa}
	}
	return map[string]interface{}{
		"date":    "2026-02-10",
		"quarter": 3,
		"teacher": "Иванова А.Б.",
		"subject": "Математика",
		"grade":   "7Б",
		"topic":   "Уравнения",
		"goal":    "Научиться решать",
		"stages": map[string]interface{}{
			"start":  stage("Оргмомент", "Готовятся"),
			"middle": stage("Объяснение", "Решают"),
			"end":    stage("Итоги", "Рефлексия"),
		},
		"reserve": []map[string]string{
			{"full_name": "Серик Д.", "teacher_action": "Вопросы", "student_reaction": "Активен", "index": "УД"},
		},
		"scores": []map[string]interface{}{
			{"score": 2}, {"score": 2}, {"score": 1}, {"score": 1},
			{"score": 2}, {"score": 0}, {"score": 1}, {"score": 2},
		},
		"strengths": []string{"Темп", "Связь", "Методы"},
		"growth":    []string{"Время", "Оценивание", "Резерв"},
		"advice":    "Критерии заранее",
		"lang":      "RU",
	}
}

func TestSignupLoginFlow(t *testing.T) {
	t.Setenv("SECRET", "test-secret")
	db := testDB(t)
	c := controllers.Controller{}

	creds := map[string]string{"username": "zavuch", "password": "secret123"}
	rr := postJSON(t, c.Signup(db), "/signup", creds, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	// Повторная регистрация того же имени.
	rr = postJSON(t, c.Signup(db), "/signup", creds, "")
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = postJSON(t, c.Login(db), "/login", creds, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])

	// Неверный пароль — тот же общий отказ.
	rr = postJSON(t, c.Login(db), "/login", map[string]string{"username": "zavuch", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	var errResp models.Error
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
	assert.Equal(t, "Access denied", errResp.Message)
}

func TestPhoneLogin(t *testing.T) {
	t.Setenv("SECRET", "test-secret")
	c := controllers.Controller{}

	rr := postJSON(t, c.PhoneLogin(stubChecker{allow: true}), "/login/phone", map[string]string{"phone": "7701234567"}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])

	rr = postJSON(t, c.PhoneLogin(stubChecker{allow: false}), "/login/phone", map[string]string{"phone": "7701234567"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = postJSON(t, c.PhoneLogin(stubChecker{allow: true}), "/login/phone", map[string]string{"phone": "not-a-phone"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateAndListReports(t *testing.T) {
	t.Setenv("SECRET", "test-secret")
	db := testDB(t)
	c := controllers.Controller{}
	rc := controllers.ReportController{}

	rr := postJSON(t, c.PhoneLogin(stubChecker{allow: true}), "/login/phone", map[string]string{"phone": "7701234567"}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var login map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))
	token := login["token"]

	rr = postJSON(t, rc.CreateReport(db), "/reports", validFormBody(), token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, 68.8, created["percent"])

	// Без токена — отказ.
	rr = postJSON(t, rc.CreateReport(db), "/reports", validFormBody(), "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = getWithToken(t, rc.GetReports(db), "/reports", token)
	require.Equal(t, http.StatusOK, rr.Code)
	var reports []models.Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "Иванова А.Б.", reports[0].Teacher)
	assert.Equal(t, 68.8, reports[0].Percent)
}

func TestCreateReport_ValidationErrors(t *testing.T) {
	t.Setenv("SECRET", "test-secret")
	db := testDB(t)
	c := controllers.Controller{}
	rc := controllers.ReportController{}

	rr := postJSON(t, c.PhoneLogin(stubChecker{allow: true}), "/login/phone", map[string]string{"phone": "7701234567"}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var login map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))
	token := login["token"]

	body := validFormBody()
	delete(body["stages"].(map[string]interface{}), "middle")
	rr = postJSON(t, rc.CreateReport(db), "/reports", body, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	body = validFormBody()
	body["scores"] = []map[string]interface{}{{"score": 2}}
	rr = postJSON(t, rc.CreateReport(db), "/reports", body, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	body = validFormBody()
	body["lang"] = "EN"
	rr = postJSON(t, rc.CreateReport(db), "/reports", body, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestExportEndpoints(t *testing.T) {
	t.Setenv("SECRET", "test-secret")
	db := testDB(t)
	c := controllers.Controller{}
	rc := controllers.ReportController{}

	rr := postJSON(t, c.PhoneLogin(stubChecker{allow: true}), "/login/phone", map[string]string{"phone": "7701234567"}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var login map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))
	token := login["token"]

	rr = postJSON(t, rc.CreateReport(db), "/reports", validFormBody(), token)
	require.Equal(t, http.StatusOK, rr.Code)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	id := int64(created["id"].(float64))

	rr = getWithToken(t, rc.ExportExcel(db), "/reports/export/excel", token)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Body.Bytes())
	assert.Contains(t, rr.Header().Get("Content-Disposition"), ".xlsx")

	router := mux.NewRouter()
	router.HandleFunc("/reports/{id}/export/word", rc.ExportWord(db)).Methods("GET")

	rr = getWithToken(t, router, fmt.Sprintf("/reports/%d/export/word", id), token)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), ".docx")

	// Несуществующий отчет.
	rr = getWithToken(t, router, fmt.Sprintf("/reports/%d/export/word", id+50), token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
