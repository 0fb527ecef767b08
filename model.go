package main

// ===========================================================================
// WHAT'S GOING ON HERE
// ===========================================================================
//
// This file implements the bag-of-words classifier itself.
//
// The model is a single embedding table plus a bias:
//
//	embedding: (num words, num labels)
//	bias:      (num labels)
//
// Scoring a sentence is one lookup-and-sum per word:
//
//	scores = bias + Σ embedding[word_i]   for every word occurrence
//
// and the prediction is the argmax of the scores.
//
// WHY THIS WORKS:
// Each embedding row IS that word's vote: row w, column c holds how much an
// occurrence of word w pushes the sentence toward label c. Summing rows is
// exactly multiplying a word-count vector by the embedding matrix, so this
// is a linear classifier over word counts - the lookup just skips the zeros.
// Word order never enters the sum, hence "bag of words".
//
// GRADIENTS (no autodiff needed):
// For cross-entropy loss over softmax(scores), the gradient with respect to
// the scores is the softmax residual
//
//	g = softmax(scores);  g[true label] -= 1
//
// and the chain rule through the sum is immediate: every word occurrence
// receives g onto its embedding row, and the bias receives g once. A word
// appearing k times accumulates k*g. That closed form replaces an entire
// backprop engine for this architecture.
//
// ===========================================================================

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ModelConfig describes the shapes of a model.
type ModelConfig struct {
	NumWords  int // vocabulary size (embedding rows)
	NumLabels int // number of classes (embedding columns, bias length)
}

// Model is a linear bag-of-words classifier.
//
// Parameters and their gradient buffers share shapes; the optimizer reads
// the gradients and writes the parameters in place between examples.
type Model struct {
	emb  *mat.Dense    // (num words, num labels)
	bias *mat.VecDense // (num labels)

	gradEmb  *mat.Dense
	gradBias *mat.VecDense
}

// NewModel creates a model with Xavier-uniform embedding weights and a zero
// bias. The rng makes initialization reproducible for a fixed seed.
func NewModel(config ModelConfig, rng *rand.Rand) *Model {
	if config.NumWords < 1 || config.NumLabels < 1 {
		panic(fmt.Sprintf("model: invalid config: %d words, %d labels", config.NumWords, config.NumLabels))
	}

	m := &Model{
		emb:      mat.NewDense(config.NumWords, config.NumLabels, nil),
		bias:     mat.NewVecDense(config.NumLabels, nil),
		gradEmb:  mat.NewDense(config.NumWords, config.NumLabels, nil),
		gradBias: mat.NewVecDense(config.NumLabels, nil),
	}

	// Xavier/Glorot uniform: U(-limit, limit) with limit = sqrt(6/(fanIn+fanOut)).
	// Keeps initial score magnitudes independent of table size.
	limit := math.Sqrt(6.0 / float64(config.NumWords+config.NumLabels))
	data := m.emb.RawMatrix().Data
	for i := range data {
		data[i] = (rng.Float64()*2.0 - 1.0) * limit
	}

	return m
}

// NumWords returns the number of embedding rows.
func (m *Model) NumWords() int {
	r, _ := m.emb.Dims()
	return r
}

// NumLabels returns the number of classes.
func (m *Model) NumLabels() int {
	_, c := m.emb.Dims()
	return c
}

// Scores computes the per-label scores for one encoded example: the bias
// plus the embedding row of every word occurrence (duplicates count twice).
//
// The sum is order-insensitive, and an empty sequence returns exactly the
// bias. Word ids must come from the vocabulary the model was sized from.
func (m *Model) Scores(words []int) *mat.VecDense {
	scores := mat.VecDenseCopyOf(m.bias)
	raw := scores.RawVector().Data
	for _, w := range words {
		floats.Add(raw, m.emb.RawRowView(w))
	}
	return scores
}

// Predict returns the label id with the highest score (ties go to the
// lowest id).
func (m *Model) Predict(words []int) int {
	return floats.MaxIdx(m.Scores(words).RawVector().Data)
}

// Backward accumulates the gradients for one example, given the gradient of
// the loss with respect to the scores. Every word occurrence adds the full
// score gradient onto its embedding row; the bias receives it once.
func (m *Model) Backward(words []int, gradScores []float64) {
	for _, w := range words {
		floats.Add(m.gradEmb.RawRowView(w), gradScores)
	}
	floats.Add(m.gradBias.RawVector().Data, gradScores)
}

// Param pairs a parameter's flat data with its gradient buffer. Optimizers
// update Data in place using Grad.
type Param struct {
	Data []float64
	Grad []float64
}

// Parameters returns flat views over all trainable parameters.
func (m *Model) Parameters() []Param {
	return []Param{
		{Data: m.emb.RawMatrix().Data, Grad: m.gradEmb.RawMatrix().Data},
		{Data: m.bias.RawVector().Data, Grad: m.gradBias.RawVector().Data},
	}
}

// ZeroGrad clears all gradient buffers.
func (m *Model) ZeroGrad() {
	zeroFloats(m.gradEmb.RawMatrix().Data)
	zeroFloats(m.gradBias.RawVector().Data)
}

func zeroFloats(s []float64) {
	for i := range s {
		s[i] = 0
	}
}

// ===========================================================================
// Model Serialization
// ===========================================================================
//
// Simple binary format:
//   1. Header length (4 bytes, little-endian)
//   2. Config as JSON
//   3. Embedding table, then bias (binary float64)
//
// A naive format - raw parameter dumps - but trivially inspectable, which is
// the point here.
// ===========================================================================

// Save writes the model to a file.
func (m *Model) Save(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	// Write config as JSON header
	config := ModelConfig{NumWords: m.NumWords(), NumLabels: m.NumLabels()}
	configJSON, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write header length (4 bytes)
	headerLen := uint32(len(configJSON))
	if err := binary.Write(f, binary.LittleEndian, headerLen); err != nil {
		return fmt.Errorf("failed to write header length: %w", err)
	}

	// Write JSON config
	if _, err := f.Write(configJSON); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	// Write parameters
	if err := binary.Write(f, binary.LittleEndian, m.emb.RawMatrix().Data); err != nil {
		return fmt.Errorf("failed to write embedding: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, m.bias.RawVector().Data); err != nil {
		return fmt.Errorf("failed to write bias: %w", err)
	}

	return nil
}

// LoadModel reads a model from a file.
func LoadModel(filename string) (*Model, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	// Read header length
	var headerLen uint32
	if err := binary.Read(f, binary.LittleEndian, &headerLen); err != nil {
		return nil, fmt.Errorf("failed to read header length: %w", err)
	}

	// Read config JSON
	configJSON := make([]byte, headerLen)
	if _, err := io.ReadFull(f, configJSON); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Parse config
	var config ModelConfig
	if err := json.Unmarshal(configJSON, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if config.NumWords < 1 || config.NumLabels < 1 {
		return nil, fmt.Errorf("invalid model config: %d words, %d labels", config.NumWords, config.NumLabels)
	}

	// Create model with zeroed parameters; the file contents replace them
	model := &Model{
		emb:      mat.NewDense(config.NumWords, config.NumLabels, nil),
		bias:     mat.NewVecDense(config.NumLabels, nil),
		gradEmb:  mat.NewDense(config.NumWords, config.NumLabels, nil),
		gradBias: mat.NewVecDense(config.NumLabels, nil),
	}

	// Read parameters
	if err := binary.Read(f, binary.LittleEndian, model.emb.RawMatrix().Data); err != nil {
		return nil, fmt.Errorf("failed to read embedding: %w", err)
	}
	if err := binary.Read(f, binary.LittleEndian, model.bias.RawVector().Data); err != nil {
		return nil, fmt.Errorf("failed to read bias: %w", err)
	}

	return model, nil
}
