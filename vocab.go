package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// RECOMMENDED READING:
//
// Word-level text classification:
// - "Bag of Tricks for Efficient Text Classification" (fastText paper)
//   Joulin, Grave, Bojanowski, Mikolov (2016)
//   https://arxiv.org/abs/1607.01759
//
// - "A Neural Probabilistic Language Model" (word embeddings)
//   Bengio, Ducharme, Vincent, Jauvin (2003)
//   https://www.jmlr.org/papers/volume3/bengio03a/bengio03a.pdf

// Special token constants
const (
	// UnkToken is the reserved entry for words never seen during training.
	UnkToken = "<unk>"

	// UnkID is the id the unknown token always occupies.
	UnkID = 0
)

// Vocab maps words to stable integer ids.
//
// Ids are assigned in first-seen order while scanning the training set, after
// the reserved unknown entry at id 0. Growth (Add) and lookup (ID) are
// separate methods on purpose: the embedding table is sized off the
// vocabulary at model construction, so a word first seen afterwards must
// fold onto the unknown id rather than receive a fresh one that would index
// past the table.
type Vocab struct {
	wordToID map[string]int // word -> ID
	idToWord []string       // ID -> word
}

// NewVocab creates a vocabulary containing only the unknown token.
func NewVocab() *Vocab {
	v := &Vocab{
		wordToID: make(map[string]int),
	}
	v.Add(UnkToken)
	return v
}

// Add returns the id for word, assigning the next free id if the word is new.
// Only the vocabulary-building pass over the training set should call this.
func (v *Vocab) Add(word string) int {
	if id, exists := v.wordToID[word]; exists {
		return id
	}
	id := len(v.idToWord)
	v.wordToID[word] = id
	v.idToWord = append(v.idToWord, word)
	return id
}

// ID returns the id for word, folding words outside the vocabulary onto
// UnkID. It never assigns new ids.
func (v *Vocab) ID(word string) int {
	if id, exists := v.wordToID[word]; exists {
		return id
	}
	return UnkID
}

// Word returns the word stored at id, or the unknown token for ids outside
// the table.
func (v *Vocab) Word(id int) string {
	if id < 0 || id >= len(v.idToWord) {
		return UnkToken
	}
	return v.idToWord[id]
}

// Size returns the number of distinct ids, unknown entry included.
func (v *Vocab) Size() int {
	return len(v.idToWord)
}

// LabelIndex maps label strings to consecutive ids starting at zero.
//
// Unlike Vocab there is no unknown entry: labels are the supervision signal,
// and an evaluation label that never appeared during training is a data
// error to surface, not something to fold away (see Encode in dataset.go).
type LabelIndex struct {
	labelToID map[string]int // label -> ID
	idToLabel []string       // ID -> label
}

// NewLabelIndex creates an empty label index.
func NewLabelIndex() *LabelIndex {
	return &LabelIndex{
		labelToID: make(map[string]int),
	}
}

// Add returns the id for label, assigning the next free id if the label is
// new. Only the vocabulary-building pass over the training set should call
// this.
func (l *LabelIndex) Add(label string) int {
	if id, exists := l.labelToID[label]; exists {
		return id
	}
	id := len(l.idToLabel)
	l.labelToID[label] = id
	l.idToLabel = append(l.idToLabel, label)
	return id
}

// ID returns the id for label and whether the label was seen during
// training. It never assigns new ids.
func (l *LabelIndex) ID(label string) (int, bool) {
	id, exists := l.labelToID[label]
	return id, exists
}

// Label returns the label stored at id, or the empty string for ids outside
// the table.
func (l *LabelIndex) Label(id int) string {
	if id < 0 || id >= len(l.idToLabel) {
		return ""
	}
	return l.idToLabel[id]
}

// Size returns the number of distinct labels.
func (l *LabelIndex) Size() int {
	return len(l.idToLabel)
}

// SaveVocabulary writes the word and label tables to a single text file.
//
// The format is line-oriented: a WORDS section header followed by one
// "word<TAB>id" entry per word in id order, then a LABELS section in the
// same shape. Ids are stored explicitly so a reload reproduces them exactly.
func SaveVocabulary(filename string, vocab *Vocab, labels *LabelIndex) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("vocab: failed to create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("vocab: failed to close file: %w", cerr)
		}
	}()

	w := bufio.NewWriter(f)
	defer func() {
		if ferr := w.Flush(); ferr != nil && err == nil {
			err = fmt.Errorf("vocab: failed to flush writer: %w", ferr)
		}
	}()

	// Write words in id order
	if _, err = fmt.Fprintf(w, "WORDS\n"); err != nil {
		return fmt.Errorf("vocab: failed to write words header: %w", err)
	}
	for id := 0; id < vocab.Size(); id++ {
		if _, err = fmt.Fprintf(w, "%s\t%d\n", vocab.Word(id), id); err != nil {
			return fmt.Errorf("vocab: failed to write word: %w", err)
		}
	}

	// Write labels in id order
	if _, err = fmt.Fprintf(w, "LABELS\n"); err != nil {
		return fmt.Errorf("vocab: failed to write labels header: %w", err)
	}
	for id := 0; id < labels.Size(); id++ {
		if _, err = fmt.Fprintf(w, "%s\t%d\n", labels.Label(id), id); err != nil {
			return fmt.Errorf("vocab: failed to write label: %w", err)
		}
	}

	return nil
}

// LoadVocabulary reads word and label tables written by SaveVocabulary.
func LoadVocabulary(filename string) (vocab *Vocab, labels *LabelIndex, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("vocab: failed to open file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("vocab: failed to close file: %w", cerr)
		}
	}()

	vocab = &Vocab{wordToID: make(map[string]int)}
	labels = NewLabelIndex()

	scanner := bufio.NewScanner(f)
	section := ""

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		// Check for section headers
		if line == "WORDS" {
			section = "words"
			continue
		} else if line == "LABELS" {
			section = "labels"
			continue
		}

		tok, idStr, found := strings.Cut(line, "\t")
		if !found {
			return nil, nil, fmt.Errorf("vocab: malformed entry %q", line)
		}
		var id int
		if _, err = fmt.Sscanf(idStr, "%d", &id); err != nil {
			return nil, nil, fmt.Errorf("vocab: failed to parse id in %q: %w", line, err)
		}

		switch section {
		case "words":
			vocab.wordToID[tok] = id
			vocab.idToWord = storeAt(vocab.idToWord, id, tok)

		case "labels":
			labels.labelToID[tok] = id
			labels.idToLabel = storeAt(labels.idToLabel, id, tok)

		default:
			return nil, nil, fmt.Errorf("vocab: entry %q before section header", line)
		}
	}

	if err = scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("vocab: error reading file: %w", err)
	}

	// The unknown entry anchors id 0; a file without it was not written
	// by SaveVocabulary.
	if vocab.Size() == 0 || vocab.idToWord[UnkID] != UnkToken {
		return nil, nil, fmt.Errorf("vocab: file %s is missing the %s entry at id %d", filename, UnkToken, UnkID)
	}

	return vocab, labels, nil
}

// storeAt places tok at index id, growing the slice as needed.
func storeAt(s []string, id int, tok string) []string {
	for len(s) <= id {
		s = append(s, "")
	}
	s[id] = tok
	return s
}
