package formatter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
)

func sampleSummary() *entity.Summary {
	return &entity.Summary{
		Title:      "Toko Kue Online",
		Pitch:      "Platform penjualan kue rumahan dengan katalog dan pemesanan daring.",
		Objectives: []string{"Meningkatkan penjualan", "Memudahkan pemesanan"},
		TechnicalDetail: &entity.TechnicalDetail{
			UIUX: &entity.DesignDetail{
				Assets:      []string{"Logo", "Icon set"},
				Philosophy:  "Hangat dan sederhana",
				TargetUsers: "Pemilik UMKM dan pembeli kue",
			},
			BE: &entity.BackendDetail{
				Routes:      []entity.APIRoute{{Path: "/api/v1/products", Method: "GET", Response: "{ data: [...] }"}},
				AuthSystem:  "Satu superadmin",
				APIFeatures: []string{"CRUD Produk"},
			},
			FE: &entity.FrontendDetail{
				PageFlow:    "Home -> Katalog -> Checkout",
				PageDetails: []entity.PageDetail{{Page: "Home", Content: []string{"Hero", "Produk unggulan"}}},
			},
		},
		TechStack:  []string{"Next.js", "PostgreSQL"},
		SprintPlan: []entity.SprintWeek{{Week: 1, Tasks: []string{"Setup project"}}},
	}
}

func TestFactory_Create(t *testing.T) {
	factory := NewFactory()

	for _, format := range []entity.ResultFormat{entity.FormatMarkdown, entity.FormatPDF, entity.FormatDOCX} {
		fm, err := factory.Create(format)
		require.NoError(t, err, "format %s", format)
		assert.NotEmpty(t, fm.ContentType())
		assert.NotEmpty(t, fm.FileExtension())
	}

	_, err := factory.Create(entity.ResultFormat("xlsx"))
	assert.ErrorIs(t, err, entity.ErrUnsupportedFormat)
}

func TestMarkdownFormatter_RendersSections(t *testing.T) {
	data, err := NewMarkdownFormatter().Format(sampleSummary(), "SESSION-TEST12345")
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "# Toko Kue Online")
	assert.Contains(t, out, "SESSION-TEST12345")
	assert.Contains(t, out, "## Visi & Strategi")
	assert.Contains(t, out, "## Divisi UI/UX")
	assert.Contains(t, out, "[GET] /api/v1/products")
	assert.Contains(t, out, "### Minggu 1")
}

func TestMarkdownFormatter_NilSummary(t *testing.T) {
	data, err := NewMarkdownFormatter().Format(nil, "SESSION-TEST12345")
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, fallbackTitle)
	assert.Contains(t, out, "sedang disiapkan")
}

func TestPDFFormatter_ProducesDocument(t *testing.T) {
	data, err := NewPDFFormatter().Format(sampleSummary(), "SESSION-TEST12345")
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestPDFFormatter_NilSummary(t *testing.T) {
	data, err := NewPDFFormatter().Format(nil, "SESSION-TEST12345")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestDOCXFormatter_ProducesDocument(t *testing.T) {
	data, err := NewDOCXFormatter().Format(sampleSummary(), "SESSION-TEST12345")
	require.NoError(t, err)

	// DOCX is a zip container.
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

func TestDocumentTitle(t *testing.T) {
	assert.Equal(t, "Toko Kue Online", documentTitle(sampleSummary()))
	assert.Equal(t, fallbackTitle, documentTitle(nil))
	assert.Equal(t, fallbackTitle, documentTitle(&entity.Summary{}))
}
