// Package export превращает сохраненные листы наблюдения в файлы для
// скачивания: сводную Excel-таблицу и официальный Word-документ.
package export

import (
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"smart-zavuch/models"
)

// TableColumns — колонки сводной таблицы, порядок фиксирован.
var TableColumns = []string{"date", "teacher", "subject", "grade", "percent"}

// ToTable рендерит отчеты в xlsx: строка заголовков плюс строка на
// отчет, в порядке входного среза. Пустой вход — лист с одними
// заголовками, это не ошибка.
func ToTable(records []models.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, column := range TableColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, errors.Wrap(err, "header cell name")
		}
		if err := f.SetCellValue(sheet, cell, column); err != nil {
			return nil, errors.Wrap(err, "write header cell")
		}
	}

	for rowIdx, rec := range records {
		values := []interface{}{rec.Date, rec.Teacher, rec.Subject, rec.Grade, rec.Percent}
		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, errors.Wrap(err, "data cell name")
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, errors.Wrap(err, "write data cell")
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "write workbook")
	}
	return buf.Bytes(), nil
}
