package formatter

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the internal name used by gofpdf
	// for the UTF-8 capable font.
	pdfFontName = "DejaVuSans"

	// Relative paths where the TTF font may live.
	// In Docker runtime fonts are copied to /app/ttf,
	// so for the compiled binary the path is ./ttf/DejaVuSans.ttf.
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"

	// Source-relative path (useful when running from repo root with `go run`).
	pdfFontSourcePath = "internal/pkg/formatter/ttf/DejaVuSans.ttf"

	pdfMargin = 20.0
)

type PDFFormatter struct{}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{}
}

// resolveFontPath tries to find the DejaVuSans font in
// runtime layout (next to the binary) or source layout.
func resolveFontPath() string {
	if _, err := os.Stat(pdfFontRuntimePath); err == nil {
		return pdfFontRuntimePath
	}

	if _, err := os.Stat(pdfFontSourcePath); err == nil {
		return pdfFontSourcePath
	}

	return ""
}

// Format lays the blueprint out as a paginated A4 document: header with
// session token and generation time, pitch, objectives, the per-division
// technical breakdown and the week-indexed roadmap. Absent summary sections
// are skipped.
func (pf *PDFFormatter) Format(summary *entity.Summary, sessionID string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, 25, pdfMargin)
	pdf.SetAutoPageBreak(true, 30)

	fontName := "Arial"
	if fontPath := resolveFontPath(); fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", fontPath)
		fontName = pdfFontName
	}

	pdf.SetHeaderFunc(func() {
		pdf.SetFont(fontName, "", 8)
		pdf.SetTextColor(150, 150, 150)
		pdf.SetXY(pdfMargin, 8)
		pdf.CellFormat(0, 4, "Generated: "+time.Now().Format("02/01/2006 15:04"), "", 0, "L", false, 0, "")
		pdf.SetXY(pdfMargin, 8)
		pdf.CellFormat(0, 4, "SESSION: "+sessionID, "", 0, "R", false, 0, "")
		pdf.SetDrawColor(230, 230, 230)
		pdf.SetLineWidth(0.1)
		w, _ := pdf.GetPageSize()
		pdf.Line(pdfMargin, 15, w-pdfMargin, 15)
		pdf.SetY(25)
	})

	pdf.SetFooterFunc(func() {
		_, h := pdf.GetPageSize()
		pdf.SetY(h - 18)
		pdf.SetFont(fontName, "", 8)
		pdf.SetTextColor(180, 180, 180)
		pdf.CellFormat(0, 4, "ProjectWizard | Dokumen Teknis", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 4, fmt.Sprintf("Halaman %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	writer := &pdfWriter{pdf: pdf, font: fontName}
	writer.title(documentTitle(summary))

	if summary == nil {
		writer.sectionHeader("I. VISI & STRATEGI")
		writer.paragraph("Laporan blueprint teknis sedang disiapkan.")
	} else {
		pf.writeSummary(writer, summary)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (pf *PDFFormatter) writeSummary(w *pdfWriter, summary *entity.Summary) {
	w.sectionHeader("I. VISI & STRATEGI")
	pitch := summary.Pitch
	if pitch == "" {
		pitch = "No pitch provided."
	}
	w.paragraph(pitch)

	if len(summary.Objectives) > 0 {
		w.sectionHeader("II. TUJUAN UTAMA")
		for _, obj := range summary.Objectives {
			w.bullet(obj)
		}
	}

	if detail := summary.TechnicalDetail; detail != nil {
		if detail.UIUX != nil {
			w.sectionHeader("III. DETAIL DIVISI UI/UX")
			w.labelled("Aset & Desain", strings.Join(detail.UIUX.Assets, ", "))
			w.labelled("Filosofi", detail.UIUX.Philosophy)
			w.labelled("Target Pengguna", detail.UIUX.TargetUsers)
		}
		if detail.BE != nil {
			w.sectionHeader("IV. DETAIL DIVISI BACKEND (BE)")
			for _, route := range detail.BE.Routes {
				w.bullet(fmt.Sprintf("[%s] %s -> %s", route.Method, route.Path, route.Response))
			}
			w.labelled("Sistem Akun & Keamanan", detail.BE.AuthSystem)
			w.labelled("Flow Request", detail.BE.RequestFlow)
			w.labelled("Fitur Utama (API)", strings.Join(detail.BE.APIFeatures, ", "))
		}
		if detail.FE != nil {
			w.sectionHeader("V. DETAIL DIVISI FRONTEND (FE)")
			for _, page := range detail.FE.PageDetails {
				w.bullet(fmt.Sprintf("Halaman %s: %s", page.Page, strings.Join(page.Content, ", ")))
			}
			w.labelled("Flow Halaman", detail.FE.PageFlow)
			w.labelled("UI Features", strings.Join(detail.FE.UIFeatures, ", "))
		}
	}

	if len(summary.TechStack) > 0 {
		w.sectionHeader("VI. TEKNOLOGI")
		w.paragraph(strings.Join(summary.TechStack, ", "))
	}

	if len(summary.SprintPlan) > 0 {
		w.sectionHeader("VII. RENCANA IMPLEMENTASI (ROADMAP)")
		for _, sprint := range summary.SprintPlan {
			w.subheading(fmt.Sprintf("Minggu %d:", sprint.Week))
			for _, task := range sprint.Tasks {
				w.bullet(task)
			}
		}
	}
}

// pdfWriter wraps the cursor bookkeeping so the section code above stays flat.
type pdfWriter struct {
	pdf  *gofpdf.Fpdf
	font string
}

func (w *pdfWriter) title(text string) {
	w.pdf.SetFont(w.font, "B", 26)
	w.pdf.SetTextColor(30, 30, 30)
	w.pdf.MultiCell(0, 11, text, "", "L", false)
	w.pdf.Ln(6)
}

func (w *pdfWriter) sectionHeader(text string) {
	w.pdf.Ln(4)
	w.pdf.SetFont(w.font, "B", 14)
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
	w.pdf.SetDrawColor(50, 100, 255)
	w.pdf.SetLineWidth(0.5)
	y := w.pdf.GetY()
	w.pdf.Line(pdfMargin, y, pdfMargin+40, y)
	w.pdf.Ln(4)
}

func (w *pdfWriter) subheading(text string) {
	w.pdf.SetFont(w.font, "B", 12)
	w.pdf.SetTextColor(50, 50, 50)
	w.pdf.CellFormat(0, 7, text, "", 1, "L", false, 0, "")
}

func (w *pdfWriter) paragraph(text string) {
	w.pdf.SetFont(w.font, "", 11)
	w.pdf.SetTextColor(60, 60, 60)
	w.pdf.MultiCell(0, 6, text, "", "L", false)
	w.pdf.Ln(2)
}

func (w *pdfWriter) bullet(text string) {
	if text == "" {
		return
	}
	w.pdf.SetFont(w.font, "", 11)
	w.pdf.SetTextColor(60, 60, 60)
	w.pdf.SetX(pdfMargin + 5)
	w.pdf.MultiCell(0, 6, "- "+text, "", "L", false)
}

func (w *pdfWriter) labelled(label, value string) {
	if value == "" {
		return
	}
	w.pdf.SetFont(w.font, "B", 11)
	w.pdf.SetTextColor(60, 60, 60)
	w.pdf.CellFormat(0, 6, label+":", "", 1, "L", false, 0, "")
	w.pdf.SetFont(w.font, "", 11)
	w.pdf.SetX(pdfMargin + 5)
	w.pdf.MultiCell(0, 6, value, "", "L", false)
	w.pdf.Ln(1)
}

func (pf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (pf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
