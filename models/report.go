package models

import "encoding/json"

// Language — язык, на котором заполнен лист наблюдения.
// Фиксируется при создании отчета и больше не меняется.
type Language string

const (
	LangRU Language = "RU"
	LangKZ Language = "KZ"
)

// ReserveStudentEntry — ученик "резерва", за которым велось наблюдение на уроке.
type ReserveStudentEntry struct {
	FullName        string `json:"full_name"`
	TeacherAction   string `json:"teacher_action"`
	StudentReaction string `json:"student_reaction"`
	Index           string `json:"index"` // индекс вида УД/ТБ
}

// StageAction — действия учителя и ученика на одном этапе урока.
type StageAction struct {
	TeacherAction string `json:"teacher_action"`
	StudentAction string `json:"student_action"`
}

// Stages — три обязательных этапа урока. Указатели, чтобы отличать
// отсутствующий этап от этапа с пустым текстом.
type Stages struct {
	Start  *StageAction `json:"start"`
	Middle *StageAction `json:"middle"`
	End    *StageAction `json:"end"`
}

// ScoreEntry — балл и комментарий по одному критерию рубрики.
type ScoreEntry struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// Report — один лист наблюдения урока. Поля повторяют колонки таблицы
// reports; reserve_json, scores_json и comments_json хранятся как
// JSON-строки, как их положила туда форма.
type Report struct {
	ID      int64  `json:"id"`
	OwnerID string `json:"user_id"`

	Date    string `json:"date"`
	Quarter int    `json:"quarter"`
	Teacher string `json:"teacher"`
	Student string `json:"student"`
	Subject string `json:"subject"`
	Grade   string `json:"grade"`
	Topic   string `json:"topic"`
	Goal    string `json:"goal"`
	Purpose string `json:"purpose"`

	StartT  string `json:"start_t"`
	StartS  string `json:"start_s"`
	MiddleT string `json:"middle_t"`
	MiddleS string `json:"middle_s"`
	EndT    string `json:"end_t"`
	EndS    string `json:"end_s"`

	IctUsage   string `json:"ict_usage"`
	Methods    string `json:"methods"`
	Reflection string `json:"reflection"`

	ReserveJSON  string `json:"reserve_json"`
	ScoresJSON   string `json:"scores_json"`
	CommentsJSON string `json:"comments_json"`

	S1     string `json:"s1"`
	S2     string `json:"s2"`
	S3     string `json:"s3"`
	G1     string `json:"g1"`
	G2     string `json:"g2"`
	G3     string `json:"g3"`
	Advice string `json:"advice"`

	Percent float64  `json:"percent"`
	Lang    Language `json:"lang"`
}

// ReserveEntries разбирает reserve_json. Пустая строка — пустой список.
func (r *Report) ReserveEntries() ([]ReserveStudentEntry, error) {
	if r.ReserveJSON == "" {
		return nil, nil
	}
	var entries []ReserveStudentEntry
	if err := json.Unmarshal([]byte(r.ReserveJSON), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ScoreEntries собирает баллы и комментарии из scores_json и comments_json.
func (r *Report) ScoreEntries() ([]ScoreEntry, error) {
	var scores []int
	if err := json.Unmarshal([]byte(r.ScoresJSON), &scores); err != nil {
		return nil, err
	}
	var comments []string
	if r.CommentsJSON != "" {
		if err := json.Unmarshal([]byte(r.CommentsJSON), &comments); err != nil {
			return nil, err
		}
	}
	entries := make([]ScoreEntry, len(scores))
	for i, s := range scores {
		entries[i].Score = s
		if i < len(comments) {
			entries[i].Comment = comments[i]
		}
	}
	return entries, nil
}

// Strengths — три сильные стороны урока в порядке ввода.
func (r *Report) Strengths() [3]string {
	return [3]string{r.S1, r.S2, r.S3}
}

// GrowthAreas — три зоны роста в порядке ввода.
func (r *Report) GrowthAreas() [3]string {
	return [3]string{r.G1, r.G2, r.G3}
}
