package render

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"schoolrecords-server-go/models"
	"schoolrecords-server-go/views"
)

var (
	incidentHeader = []interface{}{
		"Datum", "Uhrzeit", "Schüler", "Klasse", "Jahrgang", "Ort", "Gemeldet von", "Kategorie", "Status",
		"Beschreibung", "Beteiligte", "Zeugen", "Sofortmaßnahmen", "Vereinbarungen",
		"Eltern informiert", "SL informiert", "Sozialdienst",
	}
	conversationHeader = []interface{}{
		"Datum", "Uhrzeit", "Typ", "Schüler", "Klasse", "Ort", "Protokoll", "Teilnehmer",
		"Thema", "Inhalt", "Ziele", "Ergebnisse", "Folgetermin",
	}
	meetingHeader = []interface{}{
		"Datum", "Uhrzeit", "Titel", "Sitzungsleitung", "Protokoll", "Anwesende", "Tagesordnung",
	}
)

func yesNo(b bool) string {
	if b {
		return "ja"
	}
	return "nein"
}

// writeSheet fills a single-sheet workbook with a bold header row followed by
// rows and streams it to w.
func writeSheet(w io.Writer, sheet string, header []interface{}, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return err
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// IncidentsXLSX exports the incident list, one row per incident.
func IncidentsXLSX(w io.Writer, list []models.JoinedIncident) error {
	rows := make([][]interface{}, 0, len(list))
	for _, in := range list {
		social := yesNo(in.SocialServiceContacted)
		if in.SocialServiceContacted && in.SocialServiceAbbreviation != "" {
			social += " (" + in.SocialServiceAbbreviation + ")"
		}
		rows = append(rows, []interface{}{
			views.GermanDate(in.Date), in.Time, in.StudentName, in.ClassName, in.YearLevelName,
			in.Location, in.ReportedBy, string(in.Category), string(in.Status),
			in.Description, in.InvolvedPersons, in.Witnesses, in.ImmediateActions, in.Agreements,
			yesNo(in.ParentContacted), yesNo(in.AdministrationContacted), social,
		})
	}
	return writeSheet(w, "Vorfälle", incidentHeader, rows)
}

func ConversationsXLSX(w io.Writer, list []models.JoinedConversation) error {
	rows := make([][]interface{}, 0, len(list))
	for _, c := range list {
		next := ""
		if a := c.NextAppointment; a != nil && a.Date != "" {
			next = views.GermanDate(a.Date) + " " + a.Time
			if a.Location != "" {
				next += ", " + a.Location
			}
		}
		rows = append(rows, []interface{}{
			views.GermanDate(c.Date), c.Time, string(c.Type), c.DisplayStudent, c.DisplayClass,
			c.Location, c.ReportedBy, c.Participants, c.Subject, c.Content, c.Goals, c.Results, next,
		})
	}
	return writeSheet(w, "Gespräche", conversationHeader, rows)
}

// MeetingsXLSX flattens each agenda into one cell of plain text.
func MeetingsXLSX(w io.Writer, list []models.MeetingMinute) error {
	rows := make([][]interface{}, 0, len(list))
	for _, m := range list {
		agenda := ""
		for i, item := range m.AgendaItems {
			if i > 0 {
				agenda += "\n\n"
			}
			agenda += "TOP " + item.Number
			if item.Title != "" {
				agenda += ": " + item.Title
			}
			if text := PlainText(item.Summary); text != "" {
				agenda += "\n" + text
			}
		}
		rows = append(rows, []interface{}{
			views.GermanDate(m.Date), m.Time, m.Title, m.Chairperson, m.MinutesTaker, m.Attendees, agenda,
		})
	}
	return writeSheet(w, "Sitzungen", meetingHeader, rows)
}
