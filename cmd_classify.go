package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// RunClassifyCommand implements the classification CLI.
func RunClassifyCommand(args []string) error {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)

	// Model and vocabulary paths
	modelPath := fs.String("model", "", "Path to saved model file (required)")
	vocabPath := fs.String("vocab", "", "Path to saved vocabulary file (required)")

	// Input
	text := fs.String("text", "", "Sentence to classify")
	interactive := fs.Bool("interactive", false, "Interactive mode (REPL)")

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
	fmt.Println()

	// The two artifacts must come from the same training run: word ids
	// index embedding rows and label ids index columns.
	if model.NumWords() != vocab.Size() || model.NumLabels() != labels.Size() {
		return fmt.Errorf("model/vocabulary mismatch: model is %dx%d, vocabulary is %dx%d",
			model.NumWords(), model.NumLabels(), vocab.Size(), labels.Size())
	}

	if *interactive {
		// Interactive mode (REPL)
		return runClassifyREPL(model, vocab, labels)
	}

	// Single sentence mode
	if *text == "" {
		return fmt.Errorf("either --text or --interactive is required")
	}

	return classifyText(model, vocab, labels, *text)
}

// classifyText classifies a single sentence and prints the verdict.
func classifyText(model *Model, vocab *Vocab, labels *LabelIndex, text string) error {
	words := Tokenize(text)
	ids := make([]int, len(words))
	unknown := 0
	for i, w := range words {
		ids[i] = vocab.ID(w)
		if ids[i] == UnkID && w != UnkToken {
			unknown++
		}
	}

	fmt.Printf("Text: %s\n", text)
	fmt.Printf("Encoded to %d word ids (%d unknown)\n", len(ids), unknown)
	fmt.Println()

	scores := model.Scores(ids).RawVector().Data
	predicted := floats.MaxIdx(scores)

	fmt.Printf("Predicted label: %s\n", labels.Label(predicted))
	fmt.Println("Scores:")
	for c, score := range scores {
		marker := " "
		if c == predicted {
			marker = "*"
		}
		fmt.Printf("  %s %-12s %9.4f\n", marker, labels.Label(c), score)
	}

	return nil
}

// runClassifyREPL runs an interactive classification loop.
func runClassifyREPL(model *Model, vocab *Vocab, labels *LabelIndex) error {
	fmt.Println("=== Interactive Mode ===")
	fmt.Println("Enter sentences to classify. Type 'quit' or 'exit' to stop.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// Check for exit commands
		if line == "quit" || line == "exit" {
			fmt.Println("Goodbye!")
			return nil
		}

		if err := classifyText(model, vocab, labels, line); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		fmt.Println()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	return nil
}
