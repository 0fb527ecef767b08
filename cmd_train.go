package main

import (
	"flag"
	"fmt"
	"math/rand"
	"strings"
)

// ===========================================================================
// TRAINING CLI - Demonstrating the Complete Training Loop
// ===========================================================================
//
// This file implements a minimal training CLI that demonstrates the full
// pipeline: data loading → vocabulary building → encoding → training →
// model saving → inference testing.
//
// INTENTION:
// Provide a working end-to-end example of training a bag-of-words text
// classifier. This is meant to be:
//   - Simple enough to run in seconds on a laptop
//   - Complete enough to demonstrate all components working together
//   - Educational: show how the pieces fit together
//
// WHY THIS MATTERS:
// - Validates that the training infrastructure actually works
// - Demonstrates the full ML loop: train → save → load → classify
// - Provides a template for more serious classification experiments
//
// KEY DESIGN DECISIONS:
//
// 1. DATASET:
//    - Plain text files, one "<label> ||| <sentence>" example per line
//    - Word-level tokenization (lower-case, split on whitespace)
//    - The vocabulary is built from the TRAINING file only; test-set words
//      outside it fold onto <unk>
//
// 2. MODEL SIZE:
//    - One embedding table (vocab × labels) plus a bias (labels)
//    - For a 17K-word vocabulary and 5 labels: ~85K parameters
//    - Why? A linear model is the honest baseline to beat, and it trains
//      in seconds
//
// 3. TRAINING:
//    - One update per example (batch size is one)
//    - Adam with its customary defaults; SGD available via -optimizer
//    - Fixed 10 epochs, reshuffled every epoch
//
// 4. EVALUATION:
//    - Accuracy on the held-out file after every epoch
//    - A few sample classifications after training for visual inspection
//
// THIS IS NOT:
// - A recipe for training production classifiers
// - A demonstration of good ML practices (no dev/test distinction, etc.)
//
// THIS IS:
// - Proof that the training infrastructure works
// - A starting point for your own experiments
// - An educational example of the full pipeline
//
// ===========================================================================

// RunTrainCommand implements the training CLI.
//
// This is the entry point for training. It:
// 1. Loads the training and test files
// 2. Builds the vocabulary and label index from the training examples
// 3. Encodes both datasets against them
// 4. Creates and initializes the model
// 5. Trains for the configured number of epochs, printing one line per epoch
// 6. Saves the trained model and vocabulary to disk
// 7. Classifies a few training sentences to validate the model works
func RunTrainCommand(args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)

	// I/O
	trainPath := fs.String("train", "", "Path to training data file (required)")
	testPath := fs.String("test", "", "Path to test data file (required)")
	modelPath := fs.String("model", "bow_model.bin", "Output model path")
	vocabPath := fs.String("vocab", "bow_vocab.txt", "Output vocabulary path")

	// Training hyperparameters
	epochs := fs.Int("epochs", 10, "Number of training epochs")
	lr := fs.Float64("lr", 0.001, "Learning rate")
	optimizer := fs.String("optimizer", "adam", "Optimizer: adam, sgd")
	weightDecay := fs.Float64("weight-decay", 0.0, "L2 regularization strength")
	seed := fs.Int64("seed", 1, "Random seed (initialization and shuffling)")

	// Validation
	samples := fs.Int("samples", 3, "Number of training sentences to classify after training")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Validate required arguments
	if *trainPath == "" {
		return fmt.Errorf("--train is required")
	}
	if *testPath == "" {
		return fmt.Errorf("--test is required")
	}

	fmt.Println("===========================================================================")
	fmt.Println("TRAINING A BAG-OF-WORDS TEXT CLASSIFIER")
	fmt.Println("===========================================================================")
	fmt.Println()
	fmt.Printf("Training: %d epochs, lr %.4f, optimizer %s, seed %d\n",
		*epochs, *lr, *optimizer, *seed)
	fmt.Println()

	// Step 1: Load training data
	fmt.Println("Step 1: Loading training data from", *trainPath)
	rawTrain, err := LoadExamples(*trainPath)
	if err != nil {
		return fmt.Errorf("failed to load training data: %v", err)
	}
	fmt.Printf("  Loaded %d examples\n", len(rawTrain))
	fmt.Println()

	// Step 2: Load test data
	fmt.Println("Step 2: Loading test data from", *testPath)
	rawTest, err := LoadExamples(*testPath)
	if err != nil {
		return fmt.Errorf("failed to load test data: %v", err)
	}
	fmt.Printf("  Loaded %d examples\n", len(rawTest))
	fmt.Println()

	// Step 3: Build vocabulary and label index from the training set only
	fmt.Println("Step 3: Building vocabulary")
	vocab, labels := BuildVocabulary(rawTrain)
	fmt.Printf("  Vocabulary size: %d words (including %s)\n", vocab.Size(), UnkToken)
	fmt.Printf("  Labels: %d\n", labels.Size())
	fmt.Println()

	// Step 4: Encode both datasets
	// Test-set words outside the vocabulary fold onto <unk>; a test-set
	// label outside the index is a data error and stops the run here.
	fmt.Println("Step 4: Encoding datasets")
	trainSet, err := Encode(rawTrain, vocab, labels)
	if err != nil {
		return fmt.Errorf("failed to encode training data: %v", err)
	}
	testSet, err := Encode(rawTest, vocab, labels)
	if err != nil {
		return fmt.Errorf("failed to encode test data: %v", err)
	}
	fmt.Printf("  Encoded %d train / %d test examples\n", len(trainSet), len(testSet))
	fmt.Println()

	// Step 5: Initialize model
	fmt.Println("Step 5: Initializing model")
	rng := rand.New(rand.NewSource(*seed))
	model := NewModel(ModelConfig{NumWords: vocab.Size(), NumLabels: labels.Size()}, rng)
	fmt.Printf("  Total parameters: %d\n", countParameters(model.Parameters()))
	fmt.Println()

	// Step 6: Train!
	fmt.Println("Step 6: Training...")
	fmt.Println("-------------------------------------------------------------------")
	config := DefaultTrainingConfig()
	config.Epochs = *epochs
	config.LearningRate = *lr
	config.Optimizer = *optimizer
	config.WeightDecay = *weightDecay
	config.Seed = *seed

	if _, err := Train(model, trainSet, testSet, config); err != nil {
		return fmt.Errorf("training failed: %v", err)
	}
	fmt.Println("-------------------------------------------------------------------")
	fmt.Println()

	// Step 7: Save model and vocabulary
	fmt.Println("Step 7: Saving model and vocabulary")
	if err := model.Save(*modelPath); err != nil {
		return fmt.Errorf("failed to save model: %v", err)
	}
	if err := SaveVocabulary(*vocabPath, vocab, labels); err != nil {
		return fmt.Errorf("failed to save vocabulary: %v", err)
	}
	fmt.Printf("  Model saved to: %s\n", *modelPath)
	fmt.Printf("  Vocabulary saved to: %s\n", *vocabPath)
	fmt.Println()

	// Step 8: Classify a few training sentences to validate
	if *samples > 0 {
		fmt.Println("Step 8: Classifying sample sentences")
		fmt.Println("-------------------------------------------------------------------")
		for i := 0; i < *samples && i < len(rawTrain); i++ {
			predicted := model.Predict(trainSet[i].Words)
			fmt.Printf("Text:      %q\n", strings.Join(rawTrain[i].Words, " "))
			fmt.Printf("Gold:      %s\n", rawTrain[i].Label)
			fmt.Printf("Predicted: %s\n", labels.Label(predicted))
			fmt.Println()
		}
		fmt.Println("-------------------------------------------------------------------")
	}

	fmt.Println()
	fmt.Println("Training complete! Try:")
	fmt.Printf("  go run . classify -model=%s -vocab=%s -text=\"a funny and touching film\"\n",
		*modelPath, *vocabPath)
	fmt.Println()

	return nil
}

// countParameters counts total parameters in the model.
func countParameters(params []Param) int {
	total := 0
	for _, p := range params {
		total += len(p.Data)
	}
	return total
}
