package main

import (
	"flag"
	"fmt"
	"sort"
)

// ===========================================================================
// WEIGHTS CLI - Inspecting What the Classifier Learned
// ===========================================================================
//
// This file implements a CLI command for inspecting a trained model's
// embedding table. For a linear bag-of-words model the table IS the
// explanation: row w, column c holds word w's additive score contribution
// toward label c, so the highest-weight words per label are the model's
// strongest indicators for that label.
//
// INTENTION:
// - See which words the model treats as evidence for each label
// - Sanity-check training (does "hilarious" point at the positive label?)
// - Educational tool: linear models are directly interpretable
//
// USAGE:
//   go run . weights -model=bow_model.bin -vocab=bow_vocab.txt -top=10
//
// ===========================================================================

// RunWeightsCommand implements the weight inspection CLI.
//
// This command:
// 1. Loads a trained model and vocabulary
// 2. Ranks every word by its weight for each label
// 3. Prints the top words per label, plus the label's bias
func RunWeightsCommand(args []string) error {
	fs := flag.NewFlagSet("weights", flag.ExitOnError)

	// Required flags
	modelPath := fs.String("model", "", "Path to trained model file (required)")
	vocabPath := fs.String("vocab", "", "Path to vocabulary file (required)")

	// Output control
	top := fs.Int("top", 10, "Number of words to show per label")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Validate required flags
	if *modelPath == "" {
		return fmt.Errorf("--model flag is required")
	}
	if *vocabPath == "" {
		return fmt.Errorf("--vocab flag is required")
	}
	if *top < 1 {
		return fmt.Errorf("--top must be positive, got: %d", *top)
	}

	fmt.Println("===========================================================================")
	fmt.Println("CLASSIFIER WEIGHT INSPECTION")
	fmt.Println("===========================================================================")
	fmt.Println()

	// Step 1: Load model
	fmt.Println("Step 1: Loading model from", *modelPath)
	model, err := LoadModel(*modelPath)
	if err != nil {
		return fmt.Errorf("failed to load model: %v", err)
	}
	fmt.Printf("  Model loaded: %d words, %d labels\n", model.NumWords(), model.NumLabels())
	fmt.Println()

	// Step 2: Load vocabulary
	fmt.Println("Step 2: Loading vocabulary from", *vocabPath)
	vocab, labels, err := LoadVocabulary(*vocabPath)
	if err != nil {
		return fmt.Errorf("failed to load vocabulary: %v", err)
	}
	fmt.Printf("  Vocabulary loaded: %d words, %d labels\n", vocab.Size(), labels.Size())
	fmt.Println()

	if model.NumWords() != vocab.Size() || model.NumLabels() != labels.Size() {
		return fmt.Errorf("model/vocabulary mismatch: model is %dx%d, vocabulary is %dx%d",
			model.NumWords(), model.NumLabels(), vocab.Size(), labels.Size())
	}

	// Step 3: Rank words per label and print the strongest indicators
	fmt.Printf("Step 3: Top %d words per label\n", *top)
	fmt.Println("-------------------------------------------------------------------")

	type wordWeight struct {
		id     int
		weight float64
	}

	for c := 0; c < model.NumLabels(); c++ {
		weights := make([]wordWeight, model.NumWords())
		for w := 0; w < model.NumWords(); w++ {
			weights[w] = wordWeight{id: w, weight: model.emb.At(w, c)}
		}
		sort.Slice(weights, func(i, j int) bool { return weights[i].weight > weights[j].weight })

		fmt.Printf("Label %q (bias %+.4f):\n", labels.Label(c), model.bias.AtVec(c))
		for i := 0; i < *top && i < len(weights); i++ {
			fmt.Printf("  %2d. %-20s %+.4f\n", i+1, vocab.Word(weights[i].id), weights[i].weight)
		}
		fmt.Println()
	}

	return nil
}
