package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	assert := assert.New(t)

	assert.True(Allowed("notes.txt"))
	assert.True(Allowed("Report.PDF"))
	assert.True(Allowed("letter.docx"))
	assert.False(Allowed("sheet.xlsx"))
	assert.False(Allowed("README"))
}

func TestExtractText(t *testing.T) {
	assert := assert.New(t)

	text, err := Extract("a.txt", []byte("  caf\xc3\xa9 au lait\n"))
	assert.NoError(err)
	assert.Equal("café au lait", text)

	// Windows-1252: 0xE9 is é, 0x80 is the euro sign
	text, err = Extract("b.txt", []byte("caf\xe9 \x805"))
	assert.NoError(err)
	assert.Equal("café €5", text)
}

func TestExtractEmpty(t *testing.T) {
	assert := assert.New(t)

	_, err := Extract("a.txt", []byte(" \n\t"))
	assert.ErrorIs(err, ErrNoText)
}

func TestExtractUnsupported(t *testing.T) {
	assert := assert.New(t)

	_, err := Extract("image.png", []byte{0x89, 'P', 'N', 'G'})
	assert.ErrorIs(err, ErrUnsupportedFormat)
}

func TestExtractDOCX(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("word/document.xml")
	if !assert.NoError(err) {
		return
	}

	w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document><w:body>` +
		`<w:p w:rsidR="00A1"><w:r><w:t>Hello </w:t></w:r><w:r><w:t xml:space="preserve">world</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Fish &amp; chips</w:t></w:r></w:p>` +
		`<w:p><w:pPr/></w:p>` +
		`</w:body></w:document>`))

	assert.NoError(zw.Close())

	text, err := Extract("doc.docx", buf.Bytes())
	assert.NoError(err)
	assert.Equal("Hello world\nFish & chips", text)
}

func TestExtractDOCXNotZip(t *testing.T) {
	assert := assert.New(t)

	_, err := Extract("doc.docx", []byte("plain text pretending"))
	assert.Error(err)
}

func TestExtractPDFInvalid(t *testing.T) {
	assert := assert.New(t)

	_, err := Extract("doc.pdf", []byte("not a pdf"))
	assert.Error(err)
}
