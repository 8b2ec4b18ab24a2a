package csvfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadRows(t *testing.T) {
	t.Run("semicolon delimited with BOM and vendor prefix", func(t *testing.T) {
		content := "\ufeffIMTString(123): Data_Hora;Valor_Venda;Doc_Cliente\n" +
			"15/03/2024 14:30:00;25,00;123.456.789-01\n" +
			"16/03/2024 10:00:00;30,50;987.654.321-00\n"
		path := writeTempFile(t, content)

		rows, err := ReadRows(path)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "15/03/2024 14:30:00", rows[0]["Data_Hora"])
		assert.Equal(t, "25,00", rows[0]["Valor_Venda"])
		assert.Equal(t, "987.654.321-00", rows[1]["Doc_Cliente"])
	})

	t.Run("comma delimited", func(t *testing.T) {
		content := "Documento,Nome,Saldo_Carteira\n12345678901,Maria Silva,\"10,50\"\n"
		path := writeTempFile(t, content)

		rows, err := ReadRows(path)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Maria Silva", rows[0]["Nome"])
		assert.Equal(t, "10,50", rows[0]["Saldo_Carteira"])
	})

	t.Run("blank lines are dropped", func(t *testing.T) {
		content := "Data_Hora;Valor_Venda\n\n01/06/2024;10,00\n\n\n"
		path := writeTempFile(t, content)

		rows, err := ReadRows(path)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("empty file yields no rows and no error", func(t *testing.T) {
		path := writeTempFile(t, "")

		rows, err := ReadRows(path)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := ReadRows(filepath.Join(t.TempDir(), "nope.csv"))
		assert.Error(t, err)
	})
}

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, ';', DetectDelimiter("a;b;c\n1;2;3"))
	assert.Equal(t, ',', DetectDelimiter("a,b,c\n1,2,3"))
	// Semicolon wins ties, including the zero-zero case.
	assert.Equal(t, ';', DetectDelimiter("single_column"))
	assert.Equal(t, ';', DetectDelimiter("a;b,c"))
}

func TestClean(t *testing.T) {
	assert.Equal(t, "Data_Hora;Valor", Clean("\ufeffIMTString(42): Data_Hora;Valor\n"))
	assert.Equal(t, "Data_Hora;Valor", Clean("Data_Hora;Valor"))
}

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected FileType
	}{
		{"sales by data_hora", "Data_Hora;Valor_Venda;Maquinas", FileTypeSales},
		{"sales by maquinas only", "Maquinas;Valor", FileTypeSales},
		{"customer by documento", "Documento;Nome;Email", FileTypeCustomer},
		{"customer by saldo_carteira", "Nome;Saldo_Carteira", FileTypeCustomer},
		{"unknown", "foo;bar;baz", FileTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, tt.header+"\n")
			assert.Equal(t, tt.expected, DetectFileType(path))
		})
	}
}

func TestDetectFileTypeMissingFile(t *testing.T) {
	assert.Equal(t, FileTypeUnknown, DetectFileType(filepath.Join(t.TempDir(), "nope.csv")))
}
