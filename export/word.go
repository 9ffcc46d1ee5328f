package export

import (
	"bytes"
	"fmt"

	docx "github.com/fumiama/go-docx"
	"github.com/pkg/errors"

	"smart-zavuch/models"
	"smart-zavuch/rubric"
)

// ErrMalformedReserve — reserve_json в строке отчета не разбирается.
var ErrMalformedReserve = errors.New("malformed reserve_json")

const tableWidth = 9000

// ToDocument рендерит один лист наблюдения в docx. Подписи берутся из
// языкового пакета, зафиксированного в самом отчете, а не из текущего
// языка интерфейса.
func ToDocument(rec *models.Report) ([]byte, error) {
	labels, err := rubric.Labels(rec.Lang)
	if err != nil {
		return nil, err
	}
	reserve, err := rec.ReserveEntries()
	if err != nil {
		return nil, errors.Wrap(ErrMalformedReserve, err.Error())
	}

	w := docx.New().WithDefaultTheme()

	title := w.AddParagraph().Justification("center")
	title.AddText(labels.Header).Size("28").Bold()
	w.AddParagraph()

	// 1. Информация об уроке
	info := w.AddTable(6, 2, tableWidth, nil)
	infoRows := [][2]string{
		{labels.Date, rec.Date},
		{labels.Grade, rec.Grade},
		{labels.Subject, rec.Subject},
		{labels.Teacher, rec.Teacher},
		{labels.Topic, rec.Topic},
		{labels.Goal, rec.Goal},
	}
	for i, pair := range infoRows {
		info.TableRows[i].TableCells[0].AddParagraph().AddText(pair[0]).Bold()
		info.TableRows[i].TableCells[1].AddParagraph().AddText(pair[1])
	}
	w.AddParagraph()

	// 2. Ученики "резерва"
	w.AddParagraph().AddText(labels.ResHeader).Bold()
	resTable := w.AddTable(len(reserve)+1, 4, tableWidth, nil)
	resHeader := []string{labels.ResFIO, labels.ResInter, labels.ResReact, labels.ResIdx}
	for i, h := range resHeader {
		resTable.TableRows[0].TableCells[i].AddParagraph().AddText(h).Bold()
	}
	for i, entry := range reserve {
		cells := resTable.TableRows[i+1].TableCells
		cells[0].AddParagraph().AddText(entry.FullName)
		cells[1].AddParagraph().AddText(entry.TeacherAction)
		cells[2].AddParagraph().AddText(entry.StudentReaction)
		cells[3].AddParagraph().AddText(entry.Index)
	}
	w.AddParagraph()

	// 3. Ход урока: три фиксированных этапа
	w.AddParagraph().AddText(labels.StagesHeader).Bold()
	stageTable := w.AddTable(4, 3, tableWidth, nil)
	stageHeader := []string{"", labels.ActionT, labels.ActionS}
	for i, h := range stageHeader {
		stageTable.TableRows[0].TableCells[i].AddParagraph().AddText(h).Bold()
	}
	stageRows := [][3]string{
		{labels.StageStart, rec.StartT, rec.StartS},
		{labels.StageMiddle, rec.MiddleT, rec.MiddleS},
		{labels.StageEnd, rec.EndT, rec.EndS},
	}
	for i, row := range stageRows {
		cells := stageTable.TableRows[i+1].TableCells
		cells[0].AddParagraph().AddText(row[0]).Bold()
		cells[1].AddParagraph().AddText(row[1])
		cells[2].AddParagraph().AddText(row[2])
	}
	w.AddParagraph()

	// 4. Выводы
	w.AddParagraph().AddText(labels.ConclusionHeader).Size("24").Bold()
	w.AddParagraph().AddText(labels.StrengthsLabel).Bold()
	for i, s := range rec.Strengths() {
		w.AddParagraph().AddText(fmt.Sprintf("%d. %s", i+1, s))
	}
	w.AddParagraph().AddText(labels.GrowthLabel).Bold()
	for i, g := range rec.GrowthAreas() {
		w.AddParagraph().AddText(fmt.Sprintf("%d. %s", i+1, g))
	}
	w.AddParagraph().AddText(fmt.Sprintf("%s: %s", labels.FinalAdvice, rec.Advice))

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "write document")
	}
	return buf.Bytes(), nil
}
