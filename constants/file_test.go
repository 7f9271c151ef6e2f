package constants

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeExt(t *testing.T) {
	require.Equal(t, "pdf", NormalizeExt(".PDF"))
	require.Equal(t, "docx", NormalizeExt("docx"))
	require.Equal(t, "", NormalizeExt("."))
	require.Equal(t, "", NormalizeExt(""))
}

func TestMapExtToFormat(t *testing.T) {
	require.Equal(t, FormatPDF, MapExtToFormat("pdf"))
	require.Equal(t, FormatDocx, MapExtToFormat("doc"))
	require.Equal(t, FormatDocx, MapExtToFormat(".DOCX"))
	require.Equal(t, FormatXLSX, MapExtToFormat("xls"))
	require.Equal(t, FormatODT, MapExtToFormat("odt"))
	require.Equal(t, FormatText, MapExtToFormat("md"))

	// Accepted at upload but not extractable.
	require.Equal(t, Format(""), MapExtToFormat("png"))
	require.Equal(t, Format(""), MapExtToFormat("zip"))
	require.Equal(t, Format(""), MapExtToFormat("odp"))
}

func TestStatusValid(t *testing.T) {
	require.True(t, CheckStatus("PASS").Valid())
	require.True(t, CheckStatus("UNKNOWN").Valid())
	require.False(t, CheckStatus("MAYBE").Valid())

	require.True(t, OverallStatus("NEEDS_IMPROVEMENT").Valid())
	require.False(t, OverallStatus("WARNING").Valid())
}
