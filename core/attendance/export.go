package attendance

import (
	"io"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{"Student ID", "Class", "Date", "Status", "Marked By", "Semester", "Notes"}

// WriteXLSX renders records as a one-sheet XLSX workbook.
func WriteXLSX(w io.Writer, records []Record) error {
	f := excelize.NewFile()

	const sheet = "Attendance"
	f.SetSheetName("Sheet1", sheet)

	for i, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err = f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
	}
	for i, rec := range records {
		row := []interface{}{rec.StudentID, rec.ClassName, rec.Date, rec.Status, rec.MarkedBy, rec.Semester, rec.Notes}
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err = f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}
