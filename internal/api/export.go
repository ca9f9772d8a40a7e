package api

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

var csvHeader = []string{"Name", "Email", "Phone", "Location", "Instagram", "Bib Number", "Signup Date"}

// ExportCSV handles GET /waitlist/export.csv.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	signups, err := h.waitlist.ExportAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err, msgExportFailed)
		return
	}

	filename := fmt.Sprintf("dash-waitlist-%s.csv", h.now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(csvHeader); err != nil {
		slog.Error("CSV write failed (header)", "error", err)
		return
	}

	for _, s := range signups {
		if err := cw.Write([]string{
			sanitizeCSVField(s.Name),
			sanitizeCSVField(s.Email),
			s.Phone,
			sanitizeCSVField(s.Location),
			sanitizeCSVField(s.InstagramOrEmpty()),
			strconv.Itoa(s.BibNumber),
			s.SignupDate.UTC().Format("2006-01-02"),
		}); err != nil {
			slog.Error("CSV write failed (row)", "error", err)
			return
		}
	}

	slog.Info("Waitlist CSV exported", "rows", len(signups))
}

// sanitizeCSVField neutralizes spreadsheet formulas in free-text fields.
func sanitizeCSVField(s string) string {
	if s != "" && strings.ContainsRune("=+-@", rune(s[0])) {
		return "'" + s
	}
	return s
}
