package main

import (
	"fmt"
	"os"
)

func main() {
	// Check for command-line mode
	if len(os.Args) > 1 {
		cmd := os.Args[1]
		switch cmd {
		case "train":
			if err := RunTrainCommand(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "classify":
			if err := RunClassifyCommand(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "eval":
			if err := RunEvalCommand(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "weights":
			if err := RunWeightsCommand(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "help", "-h", "--help":
			printUsage()
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
			printUsage()
			os.Exit(1)
		}
	}

	// Default: show help
	printUsage()
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run . [command] [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  train     Train a classifier on labeled sentences")
	fmt.Println("  classify  Classify a sentence with a trained model")
	fmt.Println("  eval      Evaluate a trained model on a labeled file")
	fmt.Println("  weights   Show the strongest indicator words per label")
	fmt.Println("  help      Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  go run . train -train=sample_data/train.txt -test=sample_data/test.txt")
	fmt.Println("  go run . classify -model=bow_model.bin -vocab=bow_vocab.txt -text=\"a funny film\"")
	fmt.Println("  go run . classify -model=bow_model.bin -vocab=bow_vocab.txt -interactive")
	fmt.Println("  go run . eval -model=bow_model.bin -vocab=bow_vocab.txt -test=test.txt")
	fmt.Println("  go run . weights -model=bow_model.bin -vocab=bow_vocab.txt -top=10")
	fmt.Println()
}
