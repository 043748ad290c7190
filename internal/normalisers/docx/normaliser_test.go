package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
)

// createTestDOCX creates a minimal valid DOCX file in memory.
func createTestDOCX(documentXML, coreXML string) []byte {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	// Add [Content_Types].xml (required for valid DOCX)
	contentTypes, _ := w.Create("[Content_Types].xml")
	contentTypes.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`))

	// Add word/document.xml
	if documentXML != "" {
		doc, _ := w.Create("word/document.xml")
		doc.Write([]byte(documentXML))
	}

	// Add docProps/core.xml if provided
	if coreXML != "" {
		core, _ := w.Create("docProps/core.xml")
		core.Write([]byte(coreXML))
	}

	w.Close()
	return buf.Bytes()
}

const testDocumentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Section 1 - The Bakery</w:t></w:r></w:p>
<w:p><w:r><w:t>We lived </w:t></w:r><w:r><w:t>above the bakery.</w:t></w:r></w:p>
</w:body>
</w:document>`

const testCoreXML = `<?xml version="1.0" encoding="UTF-8"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
xmlns:dc="http://purl.org/dc/elements/1.1/">
<dc:title>Brooklyn Days</dc:title>
</cp:coreProperties>`

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".docx"}, New().Extensions())
}

func TestNormalise_Success(t *testing.T) {
	data := createTestDOCX(testDocumentXML, testCoreXML)

	result, err := New().Normalise(context.Background(), "memoir.docx", data)

	require.NoError(t, err)
	assert.Equal(t, "Brooklyn Days", result.Title)
	assert.Equal(t, "docx", result.Format)
	assert.Equal(t, "Section 1 - The Bakery\nWe lived above the bakery.", result.Text)
}

func TestNormalise_TitleFallbackToFilename(t *testing.T) {
	data := createTestDOCX(testDocumentXML, "")

	result, err := New().Normalise(context.Background(), "/docs/open_road.docx", data)

	require.NoError(t, err)
	assert.Equal(t, "open road", result.Title)
}

func TestNormalise_InvalidZip(t *testing.T) {
	_, err := New().Normalise(context.Background(), "memoir.docx", []byte("not a zip"))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalise_MissingDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), "memoir.docx", createTestDOCX("", ""))

	require.NoError(t, err)
	assert.Empty(t, result.Text)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}
