package api

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/docedit/internal/doctree"
	"github.com/dgallion1/docedit/internal/export"
	"github.com/dgallion1/docedit/internal/sink/docx"
	"github.com/dgallion1/docedit/internal/sink/pdf"
	"github.com/dgallion1/docedit/internal/sink/screen"
	"github.com/go-chi/chi/v5"
)

var exportContentTypes = map[string]string{
	"png":  "image/png",
	"pdf":  "application/pdf",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// handleExport renders the session document to png, pdf or docx. PDF
// export continues past blocks the writer refuses; their indexes are
// listed in the X-Docedit-Failed-Blocks header.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(chi.URLParam(r, "format"))
	contentType, ok := exportContentTypes[format]
	if !ok {
		jsonError(w, fmt.Sprintf("unsupported export format: %s", format), http.StatusBadRequest)
		return
	}

	var (
		buf    bytes.Buffer
		failed []int
	)
	sess, ok := s.withSession(w, r, func(doc *doctree.Document, _ map[string]*doctree.StyleRef) error {
		switch format {
		case "png":
			win, err := screen.New(s.cfg.ScreenWidth, s.log)
			if err != nil {
				return err
			}
			export.ToWindow(doc, win, s.stats)
			if err := win.Err(); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			return win.WritePNG(&buf)
		case "pdf":
			size, err := pdf.ParsePageSize(s.cfg.PDFPageSize)
			if err != nil {
				return err
			}
			pw := pdf.New(size, s.log)
			report := export.ToPDF(doc, pw, s.stats)
			failed = report.Failed
			_, err = pw.WriteTo(&buf)
			return err
		default:
			dw := docx.New(s.log)
			if err := export.Save(doc, dw, s.stats); err != nil {
				return err
			}
			_, err := dw.WriteTo(&buf)
			return err
		}
	})
	if !ok {
		if sess != nil {
			s.log.Error("export failed", "session_id", sess.ID, "format", format)
		}
		return
	}

	if len(failed) > 0 {
		parts := make([]string, len(failed))
		for i, idx := range failed {
			parts[i] = strconv.Itoa(idx)
		}
		w.Header().Set("X-Docedit-Failed-Blocks", strings.Join(parts, ","))
		s.log.Warn("pdf export skipped blocks", "session_id", sess.ID, "failed", failed)
	}
	name := sanitizeFilename(strings.TrimSuffix(sess.Filename, filepath.Ext(sess.Filename)))
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+"."+format))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handleExportStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}
