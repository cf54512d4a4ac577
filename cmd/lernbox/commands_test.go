package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with scripted stdin and returns everything it
// printed.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	wordList := filepath.Join(dir, "words.csv")
	boxFile := filepath.Join(dir, "box.csv")
	writeFile(t, wordList, "house,Haus\ntree,Baum\n")

	output, err := execute(t, "", "init",
		"--file", boxFile,
		"--from", wordList,
		"--source", "English",
		"--target", "German")
	require.NoError(t, err)
	assert.Contains(t, output, "Created "+boxFile+" with 2 cards")

	data, err := os.ReadFile(boxFile)
	require.NoError(t, err)
	assert.Equal(t, "English,German,Compartment\nhouse,Haus,0\ntree,Baum,0\n", string(data))
}

func TestInitCommandEmptyWordList(t *testing.T) {
	dir := t.TempDir()
	wordList := filepath.Join(dir, "words.csv")
	writeFile(t, wordList, "")

	_, err := execute(t, "", "init",
		"--file", filepath.Join(dir, "box.csv"),
		"--from", wordList,
		"--source", "English",
		"--target", "German")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no cards")
}

func TestInitCommandDuplicateWords(t *testing.T) {
	dir := t.TempDir()
	wordList := filepath.Join(dir, "words.csv")
	writeFile(t, wordList, "house,Haus\nhouse,Haus\n")

	_, err := execute(t, "", "init",
		"--file", filepath.Join(dir, "box.csv"),
		"--from", wordList,
		"--source", "English",
		"--target", "German")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid word list")
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	boxFile := filepath.Join(dir, "box.csv")
	writeFile(t, boxFile, "English,German,Compartment\nhouse,Haus,0\ntree,Baum,1\n")

	output, err := execute(t, "", "inspect", "--file", boxFile)
	require.NoError(t, err)

	assert.Contains(t, output, "English -> German, 2 cards")
	assert.Contains(t, output, "Compartment 0: 1 cards")
	assert.Contains(t, output, "house: Haus")
	assert.Contains(t, output, "Compartment 1: 1 cards")
	assert.Contains(t, output, "tree: Baum")
}

func TestInspectCommandMissingFile(t *testing.T) {
	_, err := execute(t, "", "inspect", "--file", filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

// TestStudyCommand scripts a full session: reveal the only card, answer
// correctly, then the drained box ends the loop and saves.
func TestStudyCommand(t *testing.T) {
	dir := t.TempDir()
	boxFile := filepath.Join(dir, "box.csv")
	writeFile(t, boxFile, "English,German,Compartment\nhouse,Haus,0\n")

	output, err := execute(t, "\ny\n", "study",
		"--file", boxFile,
		"--compartments", "4")
	require.NoError(t, err)

	assert.Contains(t, output, "Studying English -> German (1 cards, 4 compartments)")
	assert.Contains(t, output, "[English] house")
	assert.Contains(t, output, "[German] Haus")
	assert.Contains(t, output, "Promoted to compartment 1.")
	assert.Contains(t, output, "No cards available to draw.")
	assert.Contains(t, output, "Saved "+boxFile)

	data, err := os.ReadFile(boxFile)
	require.NoError(t, err)
	assert.Equal(t, "English,German,Compartment\nhouse,Haus,1\n", string(data))
}

// A wrong answer on a compartment-0 card leaves it in compartment 0.
func TestStudyCommandWrongAnswer(t *testing.T) {
	dir := t.TempDir()
	boxFile := filepath.Join(dir, "box.csv")
	writeFile(t, boxFile, "English,German,Compartment\nhouse,Haus,0\n")

	output, err := execute(t, "\nn\nq\n", "study",
		"--file", boxFile,
		"--compartments", "4")
	require.NoError(t, err)

	assert.Contains(t, output, "Back to compartment 0.")

	data, err := os.ReadFile(boxFile)
	require.NoError(t, err)
	assert.Equal(t, "English,German,Compartment\nhouse,Haus,0\n", string(data))
}

// Ending stdin mid-session still saves the file.
func TestStudyCommandSavesOnEOF(t *testing.T) {
	dir := t.TempDir()
	boxFile := filepath.Join(dir, "box.csv")
	writeFile(t, boxFile, "English,German,Compartment\nhouse,Haus,0\ntree,Baum,0\n")

	output, err := execute(t, "", "study",
		"--file", boxFile,
		"--compartments", "4")
	require.NoError(t, err)
	assert.Contains(t, output, "Saved "+boxFile)

	data, err := os.ReadFile(boxFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "English,German,Compartment\n")
}

func TestReadWordListSkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	wordList := filepath.Join(dir, "words.csv")
	writeFile(t, wordList, "house,Haus\n\ntree,Baum\n")

	cards, err := readWordList(wordList)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "house", cards[0].Vocabulary)
	assert.Equal(t, "tree", cards[1].Vocabulary)
}
