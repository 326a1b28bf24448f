package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall/internal/core/domain"
)

func exportDocs() []domain.Document {
	return []domain.Document{
		{ID: 1, Content: "cats are mammals", Vector: []float32{1, 0}},
		{ID: 2, Content: "dogs, \"loyal\"\nand loud", Vector: []float32{0, 1, 0}},
	}
}

const wantCSV = "id,content,dimensions\n" +
	"1,cats are mammals,2\n" +
	"2,\"dogs, \"\"loyal\"\"\nand loud\",3\n"

func TestWriteCSV(t *testing.T) {
	buf := new(bytes.Buffer)

	n, err := writeCSV(context.Background(), buf, &mockDocuments{docs: exportDocs()})

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, wantCSV, buf.String())
}

func TestWriteCSV_StopsWhenWriterFails(t *testing.T) {
	docs := make([]domain.Document, 5000)
	for i := range docs {
		docs[i] = domain.Document{ID: domain.DocumentID(i + 1), Content: "a row long enough to fill the csv buffer"}
	}
	mock := &mockDocuments{docs: docs}

	_, err := writeCSV(context.Background(), failingWriter{}, mock)

	require.ErrorIs(t, err, errWriteFailed)
	assert.Less(t, mock.visited, len(docs))
}

var errWriteFailed = errors.New("disk full")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errWriteFailed }

func TestExportCmd_Stdout(t *testing.T) {
	resetState(t)
	documentService = &mockDocuments{docs: exportDocs()}

	out, err := run(t, "", "export")

	require.NoError(t, err)
	assert.Equal(t, wantCSV, out)
}

func TestExportCmd_File(t *testing.T) {
	resetState(t)
	documentService = &mockDocuments{docs: exportDocs()}
	path := filepath.Join(t.TempDir(), "docs.csv")

	out, err := run(t, "", "export", "--output", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 documents")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, wantCSV, string(data))
}

func TestExportCmd_StoreError(t *testing.T) {
	resetState(t)
	documentService = &mockDocuments{err: domain.ErrStorage}

	_, err := run(t, "", "export")

	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestExportCmd_StoreErrorMidStream(t *testing.T) {
	resetState(t)
	documentService = &mockDocuments{docs: exportDocs(), err: domain.ErrStorage}
	path := filepath.Join(t.TempDir(), "docs.csv")

	out, err := run(t, "", "export", "--output", path)

	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.NotContains(t, out, "Exported")
}
