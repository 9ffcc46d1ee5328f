// Package report собирает сырые значения формы в проверенный лист
// наблюдения. Запись считается готовой только после подсчета процента.
package report

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"

	"smart-zavuch/models"
	"smart-zavuch/rubric"
)

// ErrInvalid — корень всех ошибок валидации формы. Конкретная причина
// добавляется оберткой, проверка делается через errors.Is.
var ErrInvalid = errors.New("invalid observation form")

// DefaultMaxReserveEntries — лимит учеников "резерва" на один лист.
const DefaultMaxReserveEntries = 3

// Form — сырые значения из формы наблюдения, до валидации.
type Form struct {
	Date    string `json:"date"`
	Quarter int    `json:"quarter"`
	Teacher string `json:"teacher"`
	Student string `json:"student"`
	Subject string `json:"subject"`
	Grade   string `json:"grade"`
	Topic   string `json:"topic"`
	Goal    string `json:"goal"`
	Purpose string `json:"purpose"`

	Stages  models.Stages                `json:"stages"`
	Reserve []models.ReserveStudentEntry `json:"reserve"`

	IctUsage   string `json:"ict_usage"`
	Methods    string `json:"methods"`
	Reflection string `json:"reflection"`

	Scores []models.ScoreEntry `json:"scores"`

	Strengths []string `json:"strengths"`
	Growth    []string `json:"growth"`
	Advice    string   `json:"advice"`

	Lang models.Language `json:"lang"`
}

// Build проверяет форму и возвращает готовый к сохранению лист наблюдения.
// Язык и процент фиксируются здесь и дальше не пересчитываются.
func Build(f Form, maxReserve int) (*models.Report, error) {
	if _, err := rubric.Labels(f.Lang); err != nil {
		return nil, err
	}
	if maxReserve <= 0 {
		maxReserve = DefaultMaxReserveEntries
	}

	date := strings.TrimSpace(f.Date)
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, errors.Wrap(ErrInvalid, "date must be YYYY-MM-DD")
	}
	if f.Quarter < 1 || f.Quarter > 4 {
		return nil, errors.Wrap(ErrInvalid, "quarter must be between 1 and 4")
	}
	if f.Stages.Start == nil || f.Stages.Middle == nil || f.Stages.End == nil {
		return nil, errors.Wrap(ErrInvalid, "all three lesson stages are required")
	}
	if len(f.Reserve) > maxReserve {
		return nil, errors.Wrapf(ErrInvalid, "at most %d reserve students allowed", maxReserve)
	}
	if len(f.Strengths) != 3 {
		return nil, errors.Wrap(ErrInvalid, "exactly 3 strengths are required")
	}
	if len(f.Growth) != 3 {
		return nil, errors.Wrap(ErrInvalid, "exactly 3 growth areas are required")
	}

	percent, err := rubric.ComputeScore(f.Scores)
	if err != nil {
		return nil, err
	}

	reserve := make([]models.ReserveStudentEntry, len(f.Reserve))
	for i, e := range f.Reserve {
		reserve[i] = models.ReserveStudentEntry{
			FullName:        strings.TrimSpace(e.FullName),
			TeacherAction:   strings.TrimSpace(e.TeacherAction),
			StudentReaction: strings.TrimSpace(e.StudentReaction),
			Index:           strings.TrimSpace(e.Index),
		}
	}
	reserveJSON, err := json.Marshal(reserve)
	if err != nil {
		return nil, errors.Wrap(err, "encode reserve entries")
	}

	scores := make([]int, len(f.Scores))
	comments := make([]string, len(f.Scores))
	for i, e := range f.Scores {
		scores[i] = e.Score
		comments[i] = strings.TrimSpace(e.Comment)
	}
	scoresJSON, err := json.Marshal(scores)
	if err != nil {
		return nil, errors.Wrap(err, "encode scores")
	}
	commentsJSON, err := json.Marshal(comments)
	if err != nil {
		return nil, errors.Wrap(err, "encode comments")
	}

	rec := &models.Report{
		Date:    date,
		Quarter: f.Quarter,
		Teacher: strings.TrimSpace(f.Teacher),
		Student: strings.TrimSpace(f.Student),
		Subject: strings.TrimSpace(f.Subject),
		Grade:   strings.TrimSpace(f.Grade),
		Topic:   strings.TrimSpace(f.Topic),
		Goal:    strings.TrimSpace(f.Goal),
		Purpose: strings.TrimSpace(f.Purpose),

		StartT:  strings.TrimSpace(f.Stages.Start.TeacherAction),
		StartS:  strings.TrimSpace(f.Stages.Start.StudentAction),
		MiddleT: strings.TrimSpace(f.Stages.Middle.TeacherAction),
		MiddleS: strings.TrimSpace(f.Stages.Middle.StudentAction),
		EndT:    strings.TrimSpace(f.Stages.End.TeacherAction),
		EndS:    strings.TrimSpace(f.Stages.End.StudentAction),

		IctUsage:   strings.TrimSpace(f.IctUsage),
		Methods:    strings.TrimSpace(f.Methods),
		Reflection: strings.TrimSpace(f.Reflection),

		ReserveJSON:  string(reserveJSON),
		ScoresJSON:   string(scoresJSON),
		CommentsJSON: string(commentsJSON),

		S1:     strings.TrimSpace(f.Strengths[0]),
		S2:     strings.TrimSpace(f.Strengths[1]),
		S3:     strings.TrimSpace(f.Strengths[2]),
		G1:     strings.TrimSpace(f.Growth[0]),
		G2:     strings.TrimSpace(f.Growth[1]),
		G3:     strings.TrimSpace(f.Growth[2]),
		Advice: strings.TrimSpace(f.Advice),

		Percent: percent,
		Lang:    f.Lang,
	}
	return rec, nil
}
