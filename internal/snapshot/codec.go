package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/skuehn/lernbox/internal/domain"
	"github.com/skuehn/lernbox/internal/domain/leitner"
)

// compartmentColumn is the literal third header column. The first two
// header columns carry the language names and vary per box.
const compartmentColumn = "Compartment"

// Encode writes the snapshot as CSV: the header row first, then one row
// per card in tier order and within-tier order.
func Encode(w io.Writer, snap leitner.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	cw := csv.NewWriter(w)

	header := []string{snap.SourceLang, snap.TargetLang, compartmentColumn}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("snapshot: write header: %w", err)
	}

	for tier, cards := range snap.Tiers {
		idx := strconv.Itoa(tier)
		for _, card := range cards {
			if err := cw.Write([]string{card.Vocabulary, card.Definition, idx}); err != nil {
				return fmt.Errorf("snapshot: write row: %w", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("snapshot: flush: %w", err)
	}
	return nil
}

// Decode parses snapshot CSV into a validated snapshot value.
//
// The compartment count is inferred as the highest referenced index plus
// one, unless compartmentOverride is positive, in which case exactly that
// many compartments are produced and a row referencing a compartment at or
// beyond the override fails with ErrTierOutOfRange. Data without any card
// rows decodes to the default compartment layout, since a zero-compartment
// box is not a usable one.
//
// Row order is authoritative: cards land in their tier in file order.
func Decode(r io.Reader, compartmentOverride int) (leitner.Snapshot, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3

	header, err := cr.Read()
	if err != nil {
		return leitner.Snapshot{}, fmt.Errorf("%w: missing header: %v", ErrMalformed, err)
	}
	if strings.TrimSpace(header[2]) != compartmentColumn {
		return leitner.Snapshot{}, fmt.Errorf("%w: header column %q, want %q",
			ErrMalformed, header[2], compartmentColumn)
	}

	type row struct {
		card domain.FlashCard
		tier int
	}

	var (
		rows   []row
		maxIdx = -1
		line   = 1
	)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return leitner.Snapshot{}, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}

		tier, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil || tier < 0 {
			return leitner.Snapshot{}, fmt.Errorf("%w: line %d: compartment index %q",
				ErrMalformed, line, record[2])
		}

		if compartmentOverride > 0 && tier >= compartmentOverride {
			return leitner.Snapshot{}, fmt.Errorf("%w: line %d references compartment %d, override allows %d",
				ErrTierOutOfRange, line, tier, compartmentOverride)
		}

		rows = append(rows, row{
			card: domain.FlashCard{Vocabulary: record[0], Definition: record[1]},
			tier: tier,
		})
		if tier > maxIdx {
			maxIdx = tier
		}
	}

	count := maxIdx + 1
	if compartmentOverride > 0 {
		count = compartmentOverride
	}
	if count == 0 {
		count = leitner.DefaultCompartments
	}

	snap := leitner.Snapshot{
		SourceLang: header[0],
		TargetLang: header[1],
		Tiers:      make([][]domain.FlashCard, count),
	}
	for _, r := range rows {
		snap.Tiers[r.tier] = append(snap.Tiers[r.tier], r.card)
	}

	if err := snap.Validate(); err != nil {
		return leitner.Snapshot{}, err
	}
	return snap, nil
}
