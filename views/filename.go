package views

import (
	"regexp"
	"strings"
	"time"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9]`)

// SafeFilename lowercases s and replaces everything outside [a-z0-9] with "_".
func SafeFilename(s string) string {
	return unsafeFilenameChars.ReplaceAllString(strings.ToLower(s), "_")
}

// MeetingPDFFilename names the PDF of a single meeting protocol.
func MeetingPDFFilename(title, date string) string {
	name := SafeFilename(title)
	if name == "" {
		name = "dokument"
	}
	return "Sitzungsprotokoll_" + name + "_" + date + ".pdf"
}

// ListPDFFilename names a printed list, e.g. "Vorfaelle_2024-03-01.pdf".
func ListPDFFilename(kind string, now time.Time) string {
	return ExportFilename(kind, now, "pdf")
}

// ExportFilename is ListPDFFilename for any export format.
func ExportFilename(kind string, now time.Time, ext string) string {
	return kind + "_" + now.Format("2006-01-02") + "." + ext
}
