package main

import (
	"flag"
	"fmt"
)

// RunEvalCommand implements the evaluation CLI: score a trained model
// against a held-out dataset file.
func RunEvalCommand(args []string) error {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)

	// Model and vocabulary paths
	modelPath := fs.String("model", "", "Path to saved model file (required)")
	vocabPath := fs.String("vocab", "", "Path to saved vocabulary file (required)")
	testPath := fs.String("test", "", "Path to evaluation data file (required)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Validate required arguments
	if *modelPath == "" {
		return fmt.Errorf("--model is required")
	}
	if *vocabPath == "" {
		return fmt.Errorf("--vocab is required")
	}
	if *testPath == "" {
		return fmt.Errorf("--test is required")
	}

	// Load model
	fmt.Printf("Loading model from %s...\n", *modelPath)
	model, err := LoadModel(*modelPath)
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}
	fmt.Printf("✓ Model loaded (words=%d, labels=%d)\n", model.NumWords(), model.NumLabels())

	// Load vocabulary
	fmt.Printf("Loading vocabulary from %s...\n", *vocabPath)
	vocab, labels, err := LoadVocabulary(*vocabPath)
	if err != nil {
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}
	fmt.Printf("✓ Vocabulary loaded (%d words, %d labels)\n", vocab.Size(), labels.Size())

	if model.NumWords() != vocab.Size() || model.NumLabels() != labels.Size() {
		return fmt.Errorf("model/vocabulary mismatch: model is %dx%d, vocabulary is %dx%d",
			model.NumWords(), model.NumLabels(), vocab.Size(), labels.Size())
	}

	// Load and encode the evaluation set
	fmt.Printf("Loading evaluation data from %s...\n", *testPath)
	raw, err := LoadExamples(*testPath)
	if err != nil {
		return fmt.Errorf("failed to load evaluation data: %w", err)
	}
	testSet, err := Encode(raw, vocab, labels)
	if err != nil {
		return fmt.Errorf("failed to encode evaluation data: %w", err)
	}
	fmt.Printf("✓ Encoded %d examples\n", len(testSet))
	fmt.Println()

	// Evaluate with a per-label breakdown
	goldCounts := make([]int, labels.Size())
	correctCounts := make([]int, labels.Size())
	numCorrect := 0
	for _, ex := range testSet {
		goldCounts[ex.Label]++
		if model.Predict(ex.Words) == ex.Label {
			correctCounts[ex.Label]++
			numCorrect++
		}
	}

	fmt.Printf("Accuracy: %.4f (%d/%d correct)\n",
		float64(numCorrect)/float64(len(testSet)), numCorrect, len(testSet))
	fmt.Println()
	fmt.Println("Per-label accuracy:")
	for c := 0; c < labels.Size(); c++ {
		if goldCounts[c] == 0 {
			// Label absent from this file
			continue
		}
		fmt.Printf("  %-12s %.4f (%d/%d)\n", labels.Label(c),
			float64(correctCounts[c])/float64(goldCounts[c]), correctCounts[c], goldCounts[c])
	}

	return nil
}
