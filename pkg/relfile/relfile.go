package relfile

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

// FieldCount is the number of pipe-delimited fields per record.
const FieldCount = 6

// ConfidenceScale converts the stored integer confidence into the
// decimal value used internally (stored value / 1000.0).
const ConfidenceScale = 1000.0

// Line is one record of a reference ("rel") file:
//
//	audioFileName|grammarName|confidence|utterance|value|confidenceValue
//
// ConfidenceValue is kept in its stored integer form; use
// ConfidenceDecimal for the scaled value.
type Line struct {
	AudioFileName   string
	GrammarName     string
	Confidence      string
	Utterance       string
	Value           string
	ConfidenceValue int
}

// ConfidenceDecimal returns the confidence as the decimal used internally.
func (l Line) ConfidenceDecimal() float64 {
	return float64(l.ConfidenceValue) / ConfidenceScale
}

// AudioBaseName returns the bare audio file name without any leading path.
func (l Line) AudioBaseName() string {
	return filepath.Base(l.AudioFileName)
}

// Parse reads pipe-delimited records, one per line. Blank lines are
// skipped. An empty confidenceValue field parses as zero; anything
// else that is not an integer is a parse error.
func Parse(r io.Reader) ([]Line, error) {
	var lines []Line

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		if strings.TrimSpace(raw) == "" {
			continue
		}

		tokens := strings.Split(raw, "|")
		if len(tokens) != FieldCount {
			return nil, fmt.Errorf("relfile line %d: expected %d fields, got %d", lineNo, FieldCount, len(tokens))
		}

		utterance := tokens[3]
		if strings.TrimSpace(utterance) == "" {
			utterance = ""
		} else {
			utterance = strings.TrimSpace(utterance)
		}

		confidenceValue := 0
		rawConfidence := strings.TrimSpace(tokens[5])
		if rawConfidence != "" {
			v, err := strconv.Atoi(rawConfidence)
			if err != nil {
				return nil, fmt.Errorf("relfile line %d: invalid confidence value %q: %w", lineNo, tokens[5], err)
			}
			confidenceValue = v
		}

		lines = append(lines, Line{
			AudioFileName:   tokens[0],
			GrammarName:     tokens[1],
			Confidence:      tokens[2],
			Utterance:       utterance,
			Value:           tokens[4],
			ConfidenceValue: confidenceValue,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading relfile: %w", err)
	}

	return lines, nil
}

// Write serializes records back into the pipe-delimited format, in the
// order given. Export correctness depends on callers passing lines in
// original line-number order.
func Write(w io.Writer, lines []Line) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		_, err := fmt.Fprintf(bw, "%s|%s|%s|%s|%s|%d\n",
			l.AudioFileName, l.GrammarName, l.Confidence, l.Utterance, l.Value, l.ConfidenceValue)
		if err != nil {
			return fmt.Errorf("writing relfile: %w", err)
		}
	}
	return bw.Flush()
}
