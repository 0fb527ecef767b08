package main

// ===========================================================================
// WHAT'S GOING ON HERE
// ===========================================================================
//
// This file turns text files into training data.
//
// Input format (one example per line):
//
//	<label> ||| <space-separated tokens>
//
// e.g. "3 ||| a warm , funny , engaging film ."
//
// The pipeline is two passes over the raw examples:
//
// 1. BuildVocabulary: scan the TRAINING set, assign every distinct word and
//    label a stable integer id in first-seen order. Words get ids after the
//    reserved <unk> entry at 0; labels get consecutive ids from 0.
//
// 2. Encode: map each example's words and label to those ids. Words outside
//    the vocabulary fold onto <unk> (the evaluation set will contain some);
//    labels outside the index are an error, because a label the model never
//    trained on has no score column and folding it would corrupt metrics.
//
// The split matters: encoding never grows the tables, so the evaluation set
// can be encoded after the model is built without invalidating its shapes.
//
// ===========================================================================

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
)

// delimiter separates the label from the token sequence on each line.
// It cannot be escaped; text containing the literal sequence is unsupported.
const delimiter = " ||| "

// ErrNoExamples is returned when an input source contains no examples.
var ErrNoExamples = errors.New("no examples")

// RawExample is one parsed input line: the label string and the lower-cased,
// whitespace-split tokens.
type RawExample struct {
	Label string
	Words []string
}

// Example is an encoded input line: word ids in original order (duplicates
// preserved) and the label id.
type Example struct {
	Words []int
	Label int
}

// Tokenize lower-cases text and splits it on whitespace.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// ReadExamples parses examples from r, one per line.
//
// The whole line is lower-cased before splitting, so labels compare
// case-insensitively too. A line without the delimiter is an error carrying
// its 1-based line number. An empty token sequence after the delimiter is
// legal and yields zero words; only the label is whitespace-trimmed, since
// trimming the line would eat the delimiter's trailing space on such lines.
func ReadExamples(r io.Reader) ([]RawExample, error) {
	examples := make([]RawExample, 0)

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.ToLower(scanner.Text())

		label, text, found := strings.Cut(line, delimiter)
		if !found {
			return nil, fmt.Errorf("line %d: missing %q delimiter", lineNum, delimiter)
		}

		examples = append(examples, RawExample{
			Label: strings.TrimSpace(label),
			Words: strings.Fields(text),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	if len(examples) == 0 {
		return nil, ErrNoExamples
	}

	return examples, nil
}

// LoadExamples reads examples from a file.
func LoadExamples(filename string) ([]RawExample, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("dataset: failed to open file: %w", err)
	}
	defer f.Close()

	examples, err := ReadExamples(f)
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: %w", filename, err)
	}
	return examples, nil
}

// BuildVocabulary scans training examples in order and assigns word and
// label ids in first-seen order. Only the training set should pass through
// here; evaluation data is encoded against the result.
func BuildVocabulary(examples []RawExample) (*Vocab, *LabelIndex) {
	vocab := NewVocab()
	labels := NewLabelIndex()

	for _, ex := range examples {
		labels.Add(ex.Label)
		for _, w := range ex.Words {
			vocab.Add(w)
		}
	}

	return vocab, labels
}

// Encode maps raw examples onto the id tables. It is a pure function of its
// arguments: word order and duplicates are preserved, unknown words fold to
// UnkID, and an unknown label is an error naming the offender.
func Encode(raw []RawExample, vocab *Vocab, labels *LabelIndex) ([]Example, error) {
	examples := make([]Example, 0, len(raw))

	for i, ex := range raw {
		labelID, seen := labels.ID(ex.Label)
		if !seen {
			return nil, fmt.Errorf("dataset: unknown label %q in example %d", ex.Label, i+1)
		}

		words := make([]int, len(ex.Words))
		for j, w := range ex.Words {
			words[j] = vocab.ID(w)
		}

		examples = append(examples, Example{Words: words, Label: labelID})
	}

	return examples, nil
}

// Sampler yields a fresh random visiting order over n examples.
//
// The training loop asks for a new order every epoch; reusing one fixed
// permutation would correlate consecutive updates across epochs.
type Sampler struct {
	n   int
	rng *rand.Rand
}

// NewSampler creates a sampler over n examples driven by rng.
func NewSampler(n int, rng *rand.Rand) *Sampler {
	return &Sampler{n: n, rng: rng}
}

// Order returns a new random permutation of [0, n).
func (s *Sampler) Order() []int {
	return s.rng.Perm(s.n)
}
