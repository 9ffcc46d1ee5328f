package controllers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"smart-zavuch/export"
	"smart-zavuch/models"
	"smart-zavuch/report"
	"smart-zavuch/rubric"
	"smart-zavuch/storage"
	"smart-zavuch/utils"
)

type ReportController struct{}

const (
	excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	wordContentType  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// CreateReport принимает заполненную форму наблюдения, считает процент
// и сохраняет лист под владельцем из токена.
func (rc ReportController) CreateReport(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := utils.GetOwnerFromToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Access denied"})
			return
		}

		var form report.Form
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		maxReserve := utils.EnvInt("MAX_RESERVE_ENTRIES", report.DefaultMaxReserveEntries)
		rec, err := report.Build(form, maxReserve)
		if err != nil {
			switch {
			case errors.Is(err, report.ErrInvalid):
				utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: err.Error()})
			case errors.Is(err, rubric.ErrMalformedScoreSet):
				utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Score set does not match the rubric"})
			case errors.Is(err, rubric.ErrUnsupportedLanguage):
				utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Unsupported language"})
			default:
				log.Println("Error building report:", err)
				utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Server error"})
			}
			return
		}

		store := storage.ReportStore{DB: db}
		id, err := store.Append(rec, owner)
		if err != nil {
			log.Println("Error saving report:", err)
			utils.RespondWithError(w, http.StatusServiceUnavailable, models.Error{Message: "Storage unavailable"})
			return
		}

		utils.ResponseJSON(w, map[string]interface{}{"id": id, "percent": rec.Percent})
	}
}

// GetReports возвращает все листы владельца по возрастанию даты.
func (rc ReportController) GetReports(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := utils.GetOwnerFromToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Access denied"})
			return
		}

		store := storage.ReportStore{DB: db}
		reports, err := store.ListByOwner(owner)
		if err != nil {
			utils.RespondWithError(w, http.StatusServiceUnavailable, models.Error{Message: "Storage unavailable"})
			return
		}
		if reports == nil {
			reports = []models.Report{}
		}
		utils.ResponseJSON(w, reports)
	}
}

// GetTrend — серия (дата, процент) для графика динамики.
func (rc ReportController) GetTrend(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := utils.GetOwnerFromToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Access denied"})
			return
		}

		store := storage.ReportStore{DB: db}
		points, err := store.TrendByOwner(owner)
		if err != nil {
			utils.RespondWithError(w, http.StatusServiceUnavailable, models.Error{Message: "Storage unavailable"})
			return
		}
		if points == nil {
			points = []storage.TrendPoint{}
		}
		utils.ResponseJSON(w, points)
	}
}

// GetRating — рейтинг учителей по среднему проценту.
func (rc ReportController) GetRating(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := utils.GetOwnerFromToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Access denied"})
			return
		}

		store := storage.ReportStore{DB: db}
		ratings, err := store.RatingByOwner(owner)
		if err != nil {
			utils.RespondWithError(w, http.StatusServiceUnavailable, models.Error{Message: "Storage unavailable"})
			return
		}
		if ratings == nil {
			ratings = []storage.TeacherRating{}
		}
		utils.ResponseJSON(w, ratings)
	}
}

// ExportExcel отдает сводную таблицу всех листов владельца как xlsx.
func (rc ReportController) ExportExcel(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := utils.GetOwnerFromToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Access denied"})
			return
		}

		store := storage.ReportStore{DB: db}
		reports, err := store.ListByOwner(owner)
		if err != nil {
			utils.RespondWithError(w, http.StatusServiceUnavailable, models.Error{Message: "Storage unavailable"})
			return
		}

		data, err := export.ToTable(reports)
		if err != nil {
			log.Println("Error rendering excel export:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to render export"})
			return
		}

		filename := fmt.Sprintf("reports-%s.xlsx", uuid.New().String()[:8])
		w.Header().Set("Content-Type", excelContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Write(data)
	}
}

// ExportWord отдает один лист наблюдения как docx. Чужой id — 404,
// испорченный reserve_json в строке — 422 только для этой строки.
func (rc ReportController) ExportWord(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := utils.GetOwnerFromToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Access denied"})
			return
		}

		id, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid report id"})
			return
		}

		store := storage.ReportStore{DB: db}
		rec, err := store.GetByOwner(int64(id), owner)
		if err == storage.ErrNotFound {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Report not found"})
			return
		}
		if err != nil {
			utils.RespondWithError(w, http.StatusServiceUnavailable, models.Error{Message: "Storage unavailable"})
			return
		}

		data, err := export.ToDocument(rec)
		if errors.Is(err, export.ErrMalformedReserve) {
			log.Printf("Report %d has malformed reserve_json: %v", rec.ID, err)
			utils.RespondWithError(w, http.StatusUnprocessableEntity, models.Error{Message: "Stored report data is malformed"})
			return
		}
		if err != nil {
			log.Println("Error rendering word export:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to render export"})
			return
		}

		filename := fmt.Sprintf("observation-%d-%s.docx", rec.ID, uuid.New().String()[:8])
		w.Header().Set("Content-Type", wordContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Write(data)
	}
}
