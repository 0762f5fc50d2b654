package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(summary *entity.Summary, sessionID string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", documentTitle(summary))
	fmt.Fprintf(&buf, "> Session: `%s`\n\n", sessionID)

	if summary == nil {
		buf.WriteString("Laporan blueprint teknis sedang disiapkan.\n")
		return buf.Bytes(), nil
	}

	if summary.Pitch != "" {
		buf.WriteString("## Visi & Strategi\n\n")
		buf.WriteString(summary.Pitch)
		buf.WriteString("\n\n")
	}

	if len(summary.Objectives) > 0 {
		buf.WriteString("## Tujuan Utama\n\n")
		for _, obj := range summary.Objectives {
			fmt.Fprintf(&buf, "- %s\n", obj)
		}
		buf.WriteString("\n")
	}

	if detail := summary.TechnicalDetail; detail != nil {
		if detail.UIUX != nil {
			buf.WriteString("## Divisi UI/UX\n\n")
			writeField(&buf, "Aset", strings.Join(detail.UIUX.Assets, ", "))
			writeField(&buf, "Filosofi", detail.UIUX.Philosophy)
			writeField(&buf, "Target Pengguna", detail.UIUX.TargetUsers)
			buf.WriteString("\n")
		}
		if detail.BE != nil {
			buf.WriteString("## Divisi Backend\n\n")
			for _, route := range detail.BE.Routes {
				fmt.Fprintf(&buf, "- `[%s] %s` -> %s\n", route.Method, route.Path, route.Response)
			}
			writeField(&buf, "Sistem Akun", detail.BE.AuthSystem)
			writeField(&buf, "Flow Request", detail.BE.RequestFlow)
			writeField(&buf, "Fitur API", strings.Join(detail.BE.APIFeatures, ", "))
			buf.WriteString("\n")
		}
		if detail.FE != nil {
			buf.WriteString("## Divisi Frontend\n\n")
			for _, page := range detail.FE.PageDetails {
				fmt.Fprintf(&buf, "- **%s**: %s\n", page.Page, strings.Join(page.Content, ", "))
			}
			writeField(&buf, "Flow Halaman", detail.FE.PageFlow)
			writeField(&buf, "UI Features", strings.Join(detail.FE.UIFeatures, ", "))
			buf.WriteString("\n")
		}
	}

	if len(summary.TechStack) > 0 {
		buf.WriteString("## Teknologi\n\n")
		for _, stack := range summary.TechStack {
			fmt.Fprintf(&buf, "- %s\n", stack)
		}
		buf.WriteString("\n")
	}

	if len(summary.SprintPlan) > 0 {
		buf.WriteString("## Rencana Implementasi\n\n")
		for _, sprint := range summary.SprintPlan {
			fmt.Fprintf(&buf, "### Minggu %d\n\n", sprint.Week)
			for _, task := range sprint.Tasks {
				fmt.Fprintf(&buf, "- %s\n", task)
			}
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}

func writeField(buf *bytes.Buffer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(buf, "- **%s**: %s\n", label, value)
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
