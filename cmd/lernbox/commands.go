package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skuehn/lernbox/internal/domain"
	"github.com/skuehn/lernbox/internal/domain/leitner"
	"github.com/skuehn/lernbox/internal/snapshot"
)

var (
	rootCmd = &cobra.Command{
		Use:   "lernbox",
		Short: "Study flashcard boxes stored as local CSV files",
		Long: `lernbox manages Leitner-style flashcard boxes in plain CSV files.
Cards start in compartment 0 and move up on correct answers and back down
on wrong ones; draws favor the lower compartments so weak cards come up
more often.`,
		SilenceUsage: true,
	}

	studyFile         string
	studyCompartments int
	studyCmd          = &cobra.Command{
		Use:   "study",
		Short: "Run an interactive study loop over a box file",
		Long: `Draws cards one at a time: the vocabulary side is shown first, the
definition after enter. Answering y promotes the card one compartment,
n demotes it. q saves the box back to the file and exits.`,
		RunE: runStudy,
	}

	inspectFile string
	inspectCmd  = &cobra.Command{
		Use:   "inspect",
		Short: "Print the languages, compartment sizes and cards of a box file",
		RunE:  runInspect,
	}

	initFile   string
	initFrom   string
	initSource string
	initTarget string
	initCmd    = &cobra.Command{
		Use:   "init",
		Short: "Build a fresh box file from a two-column word list",
		Long: `Reads word,translation pairs from a CSV word list and writes a box
file with every card in compartment 0.`,
		RunE: runInit,
	}
)

func init() {
	rootCmd.AddCommand(studyCmd)
	studyCmd.Flags().StringVar(&studyFile, "file", "", "box CSV file to study")
	studyCmd.Flags().IntVar(&studyCompartments, "compartments", 0,
		"compartment count override (0 infers it from the file)")
	_ = studyCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectFile, "file", "", "box CSV file to inspect")
	_ = inspectCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initFile, "file", "", "box CSV file to create")
	initCmd.Flags().StringVar(&initFrom, "from", "", "two-column word list to import")
	initCmd.Flags().StringVar(&initSource, "source", "", "language of the word column")
	initCmd.Flags().StringVar(&initTarget, "target", "", "language of the translation column")
	_ = initCmd.MarkFlagRequired("file")
	_ = initCmd.MarkFlagRequired("from")
	_ = initCmd.MarkFlagRequired("source")
	_ = initCmd.MarkFlagRequired("target")
}

// loadBox reads a box file and rebuilds the scheduler from it.
func loadBox(path string, compartments int) (*leitner.Box, error) {
	snap, err := snapshot.ReadFile(path, compartments)
	if err != nil {
		return nil, err
	}
	return leitner.FromSnapshot(snap, leitner.Config{})
}

func runStudy(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	box, err := loadBox(studyFile, studyCompartments)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Studying %s -> %s (%d cards, %d compartments)\n",
		box.SourceLang(), box.TargetLang(), box.Size(), box.CompartmentCount())
	fmt.Fprintln(out, "Enter reveals the definition; y = knew it, n = didn't, q = save and quit.")

	reader := bufio.NewReader(cmd.InOrStdin())
	for {
		sel, err := box.Draw()
		if errors.Is(err, leitner.ErrEmptyPool) {
			fmt.Fprintln(out, "No cards available to draw.")
			break
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "\n[%s] %s\n", box.SourceLang(), sel.Card.Vocabulary)
		fmt.Fprint(out, "(enter to reveal) ")
		if _, err := reader.ReadString('\n'); err != nil {
			fmt.Fprintln(out)
			break
		}
		fmt.Fprintf(out, "[%s] %s\n", box.TargetLang(), sel.Card.Definition)

		correct, quit := promptAnswer(out, reader)
		if quit {
			break
		}
		if correct {
			moved := box.Promote(sel)
			fmt.Fprintf(out, "Promoted to compartment %d.\n", moved.Tier)
		} else {
			moved := box.Demote(sel)
			fmt.Fprintf(out, "Back to compartment %d.\n", moved.Tier)
		}
	}

	if err := snapshot.WriteFile(studyFile, box.Snapshot()); err != nil {
		return fmt.Errorf("failed to save %s: %w", studyFile, err)
	}
	fmt.Fprintf(out, "Saved %s.\n", studyFile)
	return nil
}

// promptAnswer reads y/n/q, asking again on anything else. The second
// return reports a quit request; EOF counts as quitting.
func promptAnswer(out io.Writer, reader *bufio.Reader) (correct, quit bool) {
	for {
		fmt.Fprint(out, "Knew it? [y/n/q] ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Fprintln(out)
			return false, true
		}

		switch strings.ToLower(strings.TrimSpace(input)) {
		case "y", "yes":
			return true, false
		case "n", "no":
			return false, false
		case "q", "quit", "exit":
			return false, true
		}
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	box, err := loadBox(inspectFile, 0)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s -> %s, %d cards\n", box.SourceLang(), box.TargetLang(), box.Size())
	for tier, cards := range box.Compartments() {
		fmt.Fprintf(out, "Compartment %d: %d cards\n", tier, len(cards))
		for _, card := range cards {
			fmt.Fprintf(out, "  %s: %s\n", card.Vocabulary, card.Definition)
		}
	}
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	cards, err := readWordList(initFrom)
	if err != nil {
		return err
	}

	collection, err := domain.NewCardCollection(cards...)
	if err != nil {
		return fmt.Errorf("invalid word list %s: %w", initFrom, err)
	}

	box, err := leitner.New(collection, initSource, initTarget)
	if err != nil {
		return err
	}

	if err := snapshot.WriteFile(initFile, box.Snapshot()); err != nil {
		return fmt.Errorf("failed to write %s: %w", initFile, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s with %d cards in compartment 0.\n",
		initFile, box.Size())
	return nil
}

// readWordList parses a CSV of word,translation rows. There is no header
// row; blank lines are skipped.
func readWordList(path string) ([]domain.FlashCard, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list: %w", err)
	}
	defer func() { _ = f.Close() }()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = 2

	var cards []domain.FlashCard
	line := 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("word list line %d: %w", line, err)
		}

		card, err := domain.NewFlashCard(strings.TrimSpace(record[0]), strings.TrimSpace(record[1]))
		if err != nil {
			return nil, fmt.Errorf("word list line %d: %w", line, err)
		}
		cards = append(cards, card)
	}

	if len(cards) == 0 {
		return nil, fmt.Errorf("word list %s contains no cards", path)
	}
	return cards, nil
}
