// Package rubric держит фиксированную рубрику оценивания урока и два
// языковых пакета подписей (RU/KZ). Количество критериев и шкала баллов
// не зависят от языка — от языка зависит только текст подписей.
package rubric

import (
	"errors"
	"math"

	"smart-zavuch/models"
)

var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrMalformedScoreSet   = errors.New("malformed score set")
)

// MaxCriterionScore — максимальный балл по одному критерию.
const MaxCriterionScore = 2

// Criterion — один критерий рубрики. Порядок критериев фиксирован и
// совпадает с порядком в отчете.
type Criterion struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// LabelSet — все подписи отчета на одном языке.
type LabelSet struct {
	Title            string
	Header           string
	Teacher          string
	Student          string
	Subject          string
	Grade            string
	Date             string
	Quarter          string
	Topic            string
	Goal             string
	Purpose          string
	ResHeader        string
	ResFIO           string
	ResInter         string
	ResReact         string
	ResIdx           string
	CritHeader       string
	IctLabel         string
	MethodsLabel     string
	Reflection       string
	StagesHeader     string
	StageStart       string
	StageMiddle      string
	StageEnd         string
	ConclusionHeader string
	StrengthsLabel   string
	GrowthLabel      string
	FinalAdvice      string
	FactLabel        string
	ScoreLabel       string
	ActionT          string
	ActionS          string
	Criteria         []string
}

var labelsRU = LabelSet{
	Title:            "Smart Завуч",
	Header:           "ЛИСТ НАБЛЮДЕНИЯ УРОКА (ФОКУС-ГРУППА)",
	Teacher:          "ФИО Учителя",
	Student:          "ФИО Ученика (Резерв)",
	Subject:          "Предмет",
	Grade:            "Класс",
	Date:             "Дата",
	Quarter:          "Четверть",
	Topic:            "Тема урока",
	Goal:             "Цели урока",
	Purpose:          "Цель посещения",
	ResHeader:        "2. Фокус на учащихся 'резерва'",
	ResFIO:           "ФИО ученика",
	ResInter:         "Взаимодействие учителя",
	ResReact:         "Реакция и активность",
	ResIdx:           "Индекс (УД/ТБ)",
	CritHeader:       "3. Общий анализ урока",
	IctLabel:         "Использование ИКТ",
	MethodsLabel:     "Методы обучения",
	Reflection:       "Рефлексия",
	StagesHeader:     "Ход урока",
	StageStart:       "Начало урока",
	StageMiddle:      "Середина урока",
	StageEnd:         "Конец урока",
	ConclusionHeader: "4. Выводы и рекомендации",
	StrengthsLabel:   "Сильные стороны:",
	GrowthLabel:      "Зоны роста:",
	FinalAdvice:      "5. Рекомендации учителю",
	FactLabel:        "Комментарии",
	ScoreLabel:       "Балл",
	ActionT:          "Действие учителя",
	ActionS:          "Действие ученика",
	Criteria: []string{
		"Четкость целей", "Содержание материала", "Разнообразие методов", "Дифференциация заданий",
		"Логика этапов", "Критериальное оценивание", "Атмосфера", "Тайм-менеджмент",
	},
}

var labelsKZ = LabelSet{
	Title:            "Smart Завуч",
	Header:           "САБАҚТЫ БАҚЫЛАУ ПАРАҒЫ (РЕЗЕРВ)",
	Teacher:          "Мұғалімнің АЖТ",
	Student:          "Оқушының АЖТ",
	Subject:          "Пән",
	Grade:            "Сынып",
	Date:             "Күні",
	Quarter:          "Тоқсан",
	Topic:            "Тақырып",
	Goal:             "Сабақ мақсаты",
	Purpose:          "Бақылау мақсаты",
	ResHeader:        "2. Назардағы оқушылар",
	ResFIO:           "Оқушының АЖТ",
	ResInter:         "Мұғалімнің әрекеті",
	ResReact:         "Оқушының реакциясы",
	ResIdx:           "Индекстер",
	CritHeader:       "3. Жалпы талдау",
	IctLabel:         "АКТ қолданылуы",
	MethodsLabel:     "Әдіс-тәсілдер",
	Reflection:       "Рефлексия",
	StagesHeader:     "Сабақ кезеңдері",
	StageStart:       "Сабақтың басы",
	StageMiddle:      "Сабақтың ортасы",
	StageEnd:         "Сабақтың соңы",
	ConclusionHeader: "4. Қорытынды",
	StrengthsLabel:   "Күшті жақтары:",
	GrowthLabel:      "Даму аймақтары:",
	FinalAdvice:      "5. Ұсыныстар",
	FactLabel:        "Түсініктеме",
	ScoreLabel:       "Баға",
	ActionT:          "Мұғалім әрекеті",
	ActionS:          "Оқушы әрекеті",
	Criteria: []string{
		"Мақсаттардың айқындылығы", "Материал мазмұны", "Әдіс-тәсілдер", "Тапсырмаларды саралау",
		"Кезеңдер қисындылығы", "Бағалау", "Психологиялық ахуал", "Уақытты пайдалану",
	},
}

// Labels возвращает языковой пакет для закрытого набора языков {RU, KZ}.
func Labels(lang models.Language) (LabelSet, error) {
	switch lang {
	case models.LangRU:
		return labelsRU, nil
	case models.LangKZ:
		return labelsKZ, nil
	default:
		return LabelSet{}, ErrUnsupportedLanguage
	}
}

// Criteria возвращает упорядоченный список критериев рубрики на нужном языке.
func Criteria(lang models.Language) ([]Criterion, error) {
	labels, err := Labels(lang)
	if err != nil {
		return nil, err
	}
	criteria := make([]Criterion, len(labels.Criteria))
	for i, label := range labels.Criteria {
		criteria[i] = Criterion{Index: i, Label: label}
	}
	return criteria, nil
}

// CriterionCount — число критериев рубрики. Одинаково для всех языков.
func CriterionCount() int {
	return len(labelsRU.Criteria)
}

// ComputeScore считает итоговый процент по набору баллов. Знаменатель
// выводится из рубрики, а не зашит константой: 2 * число критериев.
// Результат округляется до одного знака после запятой.
func ComputeScore(entries []models.ScoreEntry) (float64, error) {
	n := CriterionCount()
	if len(entries) != n {
		return 0, ErrMalformedScoreSet
	}
	sum := 0
	for _, e := range entries {
		if e.Score < 0 || e.Score > MaxCriterionScore {
			return 0, ErrMalformedScoreSet
		}
		sum += e.Score
	}
	percent := 100 * float64(sum) / float64(MaxCriterionScore*n)
	return math.Round(percent*10) / 10, nil
}
