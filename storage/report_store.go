// Package storage — доступ к таблицам users и reports. Отчеты только
// добавляются и читаются, обновления и удаления на этом уровне нет.
package storage

import (
	"database/sql"
	"errors"

	log "github.com/sirupsen/logrus"

	"smart-zavuch/models"
)

var (
	ErrOwnerRequired      = errors.New("owner id is required")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrNotFound           = errors.New("report not found")
)

type ReportStore struct {
	DB *sql.DB
}

const reportColumns = `id, user_id, date, quarter, teacher, student, subject, grade, topic, goal,
	purpose, start_t, start_s, middle_t, middle_s, end_t, end_s,
	ict_usage, methods, reflection, reserve_json, scores_json, comments_json,
	s1, s2, s3, g1, g2, g3, advice, percent, lang`

// Append вставляет лист наблюдения под владельцем ownerID. Всегда insert,
// никогда upsert. Возвращает id новой строки.
func (s ReportStore) Append(rec *models.Report, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, ErrOwnerRequired
	}
	query := `INSERT INTO reports (user_id, date, quarter, teacher, student, subject, grade, topic, goal,
		purpose, start_t, start_s, middle_t, middle_s, end_t, end_s,
		ict_usage, methods, reflection, reserve_json, scores_json, comments_json,
		s1, s2, s3, g1, g2, g3, advice, percent, lang)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := s.DB.Exec(query,
		ownerID, rec.Date, rec.Quarter, rec.Teacher, rec.Student, rec.Subject, rec.Grade, rec.Topic, rec.Goal,
		rec.Purpose, rec.StartT, rec.StartS, rec.MiddleT, rec.MiddleS, rec.EndT, rec.EndS,
		rec.IctUsage, rec.Methods, rec.Reflection, rec.ReserveJSON, rec.ScoresJSON, rec.CommentsJSON,
		rec.S1, rec.S2, rec.S3, rec.G1, rec.G2, rec.G3, rec.Advice, rec.Percent, string(rec.Lang))
	if err != nil {
		log.Println("Error inserting report:", err)
		return 0, ErrStorageUnavailable
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Println("Error reading new report id:", err)
		return 0, ErrStorageUnavailable
	}
	rec.ID = id
	rec.OwnerID = ownerID
	return id, nil
}

// ListByOwner возвращает все листы владельца, по возрастанию даты —
// порядок, который нужен графику динамики.
func (s ReportStore) ListByOwner(ownerID string) ([]models.Report, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	query := `SELECT ` + reportColumns + ` FROM reports WHERE user_id = ? ORDER BY date ASC, id ASC`
	rows, err := s.DB.Query(query, ownerID)
	if err != nil {
		log.Println("Error querying reports:", err)
		return nil, ErrStorageUnavailable
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		rec, err := scanReport(rows)
		if err != nil {
			log.Println("Error scanning report row:", err)
			return nil, ErrStorageUnavailable
		}
		reports = append(reports, *rec)
	}
	if err := rows.Err(); err != nil {
		log.Println("Error iterating report rows:", err)
		return nil, ErrStorageUnavailable
	}
	return reports, nil
}

// GetByOwner возвращает один лист владельца. Чужой id выглядит так же,
// как несуществующий.
func (s ReportStore) GetByOwner(id int64, ownerID string) (*models.Report, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = ? AND user_id = ?`
	row := s.DB.QueryRow(query, id, ownerID)
	rec, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Println("Error querying report:", err)
		return nil, ErrStorageUnavailable
	}
	return rec, nil
}

// TrendPoint — точка графика динамики: дата визита и процент.
type TrendPoint struct {
	Date    string  `json:"date"`
	Teacher string  `json:"teacher"`
	Percent float64 `json:"percent"`
}

// TrendByOwner возвращает серию (дата, процент) по возрастанию даты.
func (s ReportStore) TrendByOwner(ownerID string) ([]TrendPoint, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	query := `SELECT date, teacher, percent FROM reports WHERE user_id = ? ORDER BY date ASC, id ASC`
	rows, err := s.DB.Query(query, ownerID)
	if err != nil {
		log.Println("Error querying trend:", err)
		return nil, ErrStorageUnavailable
	}
	defer rows.Close()

	var points []TrendPoint
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.Date, &p.Teacher, &p.Percent); err != nil {
			log.Println("Error scanning trend row:", err)
			return nil, ErrStorageUnavailable
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, ErrStorageUnavailable
	}
	return points, nil
}

// TeacherRating — средний процент учителя по всем визитам владельца.
type TeacherRating struct {
	Teacher string  `json:"teacher"`
	Average float64 `json:"average"`
	Visits  int     `json:"visits"`
}

// RatingByOwner возвращает рейтинг учителей по убыванию среднего процента.
func (s ReportStore) RatingByOwner(ownerID string) ([]TeacherRating, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	query := `SELECT teacher, AVG(percent), COUNT(*) FROM reports WHERE user_id = ?
		GROUP BY teacher ORDER BY AVG(percent) DESC, teacher ASC`
	rows, err := s.DB.Query(query, ownerID)
	if err != nil {
		log.Println("Error querying rating:", err)
		return nil, ErrStorageUnavailable
	}
	defer rows.Close()

	var ratings []TeacherRating
	for rows.Next() {
		var r TeacherRating
		if err := rows.Scan(&r.Teacher, &r.Average, &r.Visits); err != nil {
			log.Println("Error scanning rating row:", err)
			return nil, ErrStorageUnavailable
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, ErrStorageUnavailable
	}
	return ratings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row rowScanner) (*models.Report, error) {
	var rec models.Report
	var lang string
	err := row.Scan(
		&rec.ID, &rec.OwnerID, &rec.Date, &rec.Quarter, &rec.Teacher, &rec.Student, &rec.Subject,
		&rec.Grade, &rec.Topic, &rec.Goal, &rec.Purpose,
		&rec.StartT, &rec.StartS, &rec.MiddleT, &rec.MiddleS, &rec.EndT, &rec.EndS,
		&rec.IctUsage, &rec.Methods, &rec.Reflection,
		&rec.ReserveJSON, &rec.ScoresJSON, &rec.CommentsJSON,
		&rec.S1, &rec.S2, &rec.S3, &rec.G1, &rec.G2, &rec.G3, &rec.Advice,
		&rec.Percent, &lang)
	if err != nil {
		return nil, err
	}
	rec.Lang = models.Language(lang)
	return &rec, nil
}
