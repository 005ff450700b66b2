package descriptor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const generatedGPR = `with "config/stm32f4_config.gpr";
project Stm32f4 is

   for Library_Name use "Stm32f4";
   for Library_Version use Project'Library_Name & ".so." & Stm32f4_Config.Crate_Version;

end Stm32f4;
`

func writeGPR(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stm32f4.gpr")
	require.NoError(t, os.WriteFile(path, []byte(generatedGPR), 0644))
	return path
}

func TestBlockRender(t *testing.T) {
	got := Block{Target: "arm-elf", Runtime: "light-cortex-m4f"}.Render()
	require.Equal(t, "   for Target use \"arm-elf\";\n   for Runtime (\"Ada\") use \"light-cortex-m4f\";", got)
	require.Contains(t, got, RuntimeMarker)
}

func TestBlockRenderDoublesQuotes(t *testing.T) {
	got := Block{Target: `arm"elf`, Runtime: `light\m4`}.Render()
	require.Equal(t, "   for Target use \"arm\"\"elf\";\n   for Runtime (\"Ada\") use \"light\\m4\";", got)
	require.NotContains(t, got, `\"`)
}

func TestEnsureBlockKeepsCRLFLineEndings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stm32f4.gpr")
	crlf := strings.ReplaceAll(generatedGPR, "\n", "\r\n")
	require.NoError(t, os.WriteFile(path, []byte(crlf), 0644))

	changed, err := EnsureBlock(path, RuntimeMarker, Block{Target: "arm-elf", Runtime: "light-cortex-m4f"}.Render(), 2)
	require.NoError(t, err)
	require.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	require.Equal(t, strings.Count(content, "\n"), strings.Count(content, "\r\n"))
	lines := strings.Split(content, "\r\n")
	require.Equal(t, `   for Target use "arm-elf";`, lines[2])
	require.Equal(t, `   for Runtime ("Ada") use "light-cortex-m4f";`, lines[3])
	require.True(t, strings.HasSuffix(content, "end Stm32f4;\r\n"))
}

func TestEnsureBlockInsertsAtLineIndex(t *testing.T) {
	path := writeGPR(t)
	block := Block{Target: "arm-elf", Runtime: "light-cortex-m4f"}.Render()

	changed, err := EnsureBlock(path, RuntimeMarker, block, 2)
	require.NoError(t, err)
	require.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	require.Equal(t, "project Stm32f4 is", lines[1])
	require.Equal(t, `   for Target use "arm-elf";`, lines[2])
	require.Equal(t, `   for Runtime ("Ada") use "light-cortex-m4f";`, lines[3])
	require.Equal(t, "", lines[4])
	require.True(t, strings.HasSuffix(string(data), "end Stm32f4;\n"))
}

func TestEnsureBlockIsIdempotent(t *testing.T) {
	path := writeGPR(t)
	block := Block{Target: "arm-elf", Runtime: "light-cortex-m4f"}.Render()

	_, err := EnsureBlock(path, RuntimeMarker, block, 2)
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		changed, err := EnsureBlock(path, RuntimeMarker, block, 2)
		require.NoError(t, err)
		require.False(t, changed)
	}

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, first, after)
	require.Equal(t, 1, strings.Count(string(after), RuntimeMarker))
}

func TestEnsureBlockDetectsMarkerAnywhereInFile(t *testing.T) {
	path := writeGPR(t)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Configuration placed by hand near the end of the file still counts.
	edited := strings.Replace(string(data), "end Stm32f4;", "   for Runtime (\"Ada\") use \"embedded\";\nend Stm32f4;", 1)
	require.NoError(t, os.WriteFile(path, []byte(edited), 0644))

	changed, err := EnsureBlock(path, RuntimeMarker, Block{Target: "arm-elf", Runtime: "light"}.Render(), 2)
	require.NoError(t, err)
	require.False(t, changed)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, edited, string(after))
}

func TestEnsureBlockClampsLinePastEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.gpr")
	require.NoError(t, os.WriteFile(path, []byte("project Short is\nend Short;\n"), 0644))

	changed, err := EnsureBlock(path, "MARK", "-- MARK", 40)
	require.NoError(t, err)
	require.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "project Short is\nend Short;\n-- MARK\n", string(data))
}

func TestEnsureBlockMissingFileFailsWithoutCreatingIt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stm32f4.gpr")

	changed, err := EnsureBlock(path, RuntimeMarker, Block{Target: "arm-elf", Runtime: "x"}.Render(), 2)
	require.False(t, changed)

	var accessErr *FileAccessError
	require.ErrorAs(t, err, &accessErr)
	require.Equal(t, "read", accessErr.Op)

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestEnsureBlockPreservesFileMode(t *testing.T) {
	path := writeGPR(t)
	require.NoError(t, os.Chmod(path, 0600))

	_, err := EnsureBlock(path, RuntimeMarker, Block{Target: "a", Runtime: "b"}.Render(), 2)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
