package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (df *DOCXFormatter) Format(summary *entity.Summary, sessionID string) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	titlePar := doc.AddParagraph()
	titlePar.SetStyle("Heading1")
	titlePar.AddRun().AddText(documentTitle(summary))

	sessionPar := doc.AddParagraph()
	sessionRun := sessionPar.AddRun()
	sessionRun.Properties().SetItalic(true)
	sessionRun.AddText("Session: " + sessionID)

	if summary == nil {
		doc.AddParagraph().AddRun().AddText("Laporan blueprint teknis sedang disiapkan.")
		return saveDoc(doc)
	}

	if summary.Pitch != "" {
		addHeading(doc, "Visi & Strategi")
		doc.AddParagraph().AddRun().AddText(summary.Pitch)
	}

	if len(summary.Objectives) > 0 {
		addHeading(doc, "Tujuan Utama")
		for _, obj := range summary.Objectives {
			addItem(doc, obj)
		}
	}

	if detail := summary.TechnicalDetail; detail != nil {
		if detail.UIUX != nil {
			addHeading(doc, "Divisi UI/UX")
			addItem(doc, "Aset: "+strings.Join(detail.UIUX.Assets, ", "))
			addItem(doc, "Filosofi: "+detail.UIUX.Philosophy)
			addItem(doc, "Target Pengguna: "+detail.UIUX.TargetUsers)
		}
		if detail.BE != nil {
			addHeading(doc, "Divisi Backend")
			for _, route := range detail.BE.Routes {
				addItem(doc, fmt.Sprintf("[%s] %s -> %s", route.Method, route.Path, route.Response))
			}
			addItem(doc, "Sistem Akun: "+detail.BE.AuthSystem)
			addItem(doc, "Fitur API: "+strings.Join(detail.BE.APIFeatures, ", "))
		}
		if detail.FE != nil {
			addHeading(doc, "Divisi Frontend")
			for _, page := range detail.FE.PageDetails {
				addItem(doc, fmt.Sprintf("Halaman %s: %s", page.Page, strings.Join(page.Content, ", ")))
			}
			addItem(doc, "Flow Halaman: "+detail.FE.PageFlow)
		}
	}

	if len(summary.TechStack) > 0 {
		addHeading(doc, "Teknologi")
		addItem(doc, strings.Join(summary.TechStack, ", "))
	}

	if len(summary.SprintPlan) > 0 {
		addHeading(doc, "Rencana Implementasi")
		for _, sprint := range summary.SprintPlan {
			addItem(doc, fmt.Sprintf("Minggu %d: %s", sprint.Week, strings.Join(sprint.Tasks, "; ")))
		}
	}

	return saveDoc(doc)
}

func addHeading(doc *document.Document, text string) {
	par := doc.AddParagraph()
	par.SetStyle("Heading2")
	par.AddRun().AddText(text)
}

func addItem(doc *document.Document, text string) {
	par := doc.AddParagraph()
	par.AddRun().AddText(text)
}

func saveDoc(doc *document.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (df *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (df *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
