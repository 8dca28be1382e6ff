package db

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"schoolrecords-server-go/models"
)

// --- Excel Import ---

// ImportStudentsFromExcel reads an Excel file stream and adds its students to
// the given class. The first row is a header; column A holds the last name and
// column B the first name. All rows are appended with a single write.
func (r *Repository) ImportStudentsFromExcel(ctx context.Context, file io.Reader, classID string) (int, error) {
	_, exists, err := r.Classes.GetByID(ctx, classID)
	if err != nil {
		return 0, fmt.Errorf("failed to check class before import: %w", err)
	}
	if !exists {
		return 0, ErrClassNotFound
	}

	f, err := excelize.OpenReader(file)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			r.log.Warn("failed to close excel file", "error", err)
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return 0, fmt.Errorf("%w: no sheets", ErrInvalidWorkbook)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return 0, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}

	students, err := r.Students.FetchAll(ctx)
	if err != nil {
		return 0, err
	}

	imported := 0
	for i, row := range rows {
		if i == 0 {
			continue
		}
		var lastName, firstName string
		if len(row) > 0 {
			lastName = strings.TrimSpace(row[0])
		}
		if len(row) > 1 {
			firstName = strings.TrimSpace(row[1])
		}
		if lastName == "" || firstName == "" {
			r.log.Debug("skipping incomplete row", "row", i+1, "lastName", lastName, "firstName", firstName)
			continue
		}
		students = append(students, models.Student{
			ID:        r.NewID(),
			ClassID:   classID,
			FirstName: firstName,
			LastName:  lastName,
		})
		imported++
	}

	if imported == 0 {
		return 0, nil
	}
	if err := r.Students.SaveAll(ctx, students); err != nil {
		return 0, err
	}
	r.log.Info("imported students", "count", imported, "classId", classID)
	return imported, nil
}
