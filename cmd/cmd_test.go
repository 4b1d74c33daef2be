package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orgDigest = "fcde60ebc558875759917e93a79477543ba36866bf70de30b8bca23532c11371"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath, algorithm, excludes, markCycles, format, verbosity, debug = "", "", nil, false, "", 0, false
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	configPath = filepath.Join(t.TempDir(), ".checksum.yaml")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func docs(t *testing.T) (yml, js string) {
	t.Helper()
	dir := t.TempDir()
	yml = filepath.Join(dir, "org.yaml")
	js = filepath.Join(dir, "org.json")
	require.NoError(t, os.WriteFile(yml, []byte("size: 12\nname: TechCorp\n"), 0o600))
	require.NoError(t, os.WriteFile(js, []byte(`{"name": "TechCorp", "size": 12}`), 0o600))
	return yml, js
}

func TestSum(t *testing.T) {
	yml, js := docs(t)
	out, err := run(t, "sum", yml, js)
	require.NoError(t, err)
	assert.Equal(t, orgDigest+"  "+yml+"\n"+orgDigest+"  "+js+"\n", out)

	out, err = run(t, "sum", "-a", "md5", "--format", "{{ .Algorithm }} {{ short 8 .Digest }}", yml)
	require.NoError(t, err)
	assert.Equal(t, "MD5 ", out[:4])
	assert.Len(t, strings.TrimSpace(out), 12)
}

func TestSumNumberSpelling(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "price.yaml")
	js := filepath.Join(dir, "price.json")
	require.NoError(t, os.WriteFile(yml, []byte("price: 1.50\nqty: 1e2\n"), 0o600))
	require.NoError(t, os.WriteFile(js, []byte(`{"qty": 100, "price": 1.5}`), 0o600))

	out, err := run(t, "sum", "--format", "{{ .Digest }}", yml, js)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, lines[0], lines[1])

	stream, err := run(t, "canonical", js)
	require.NoError(t, err)
	assert.Equal(t, "price1.5qty100", stream)
}

func TestSumExclude(t *testing.T) {
	yml, _ := docs(t)
	full, err := run(t, "canonical", yml)
	require.NoError(t, err)
	assert.Equal(t, "nameTechCorpsize12", full)

	out, err := run(t, "canonical", "--exclude", "size", yml)
	require.NoError(t, err)
	assert.Equal(t, "nameTechCorp", out)
}

func TestVerify(t *testing.T) {
	yml, _ := docs(t)
	out, err := run(t, "verify", strings.ToUpper(orgDigest), yml)
	require.NoError(t, err)
	assert.Equal(t, yml+": OK\n", out)

	_, err = run(t, "verify", strings.Repeat("0", 64), yml)
	assert.ErrorIs(t, err, ErrMismatch)
}

func TestAlgorithms(t *testing.T) {
	out, err := run(t, "algorithms")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines, "SHA-256")
	assert.Contains(t, lines, "BLAKE2b-512")
}

func TestValidate(t *testing.T) {
	_, err := run(t, "validate", "--format", "{{ .Digest ")
	assert.ErrorContains(t, err, "format:")

	_, err = run(t, "validate", "--format", "{{ .Checksum }}")
	assert.ErrorContains(t, err, "format:")

	out, err := run(t, "validate")
	require.NoError(t, err)
	assert.Equal(t, "settings OK\n", out)
}
