package main

// ===========================================================================
// WHAT'S GOING ON HERE
// ===========================================================================
//
// This file implements the training loop for the bag-of-words classifier:
// loss, optimizers, and the epoch schedule.
//
// INTENTION:
// Create a complete training system that demonstrates:
//   - Forward pass: Words → Scores → Loss
//   - Backward pass: Loss → Gradients (closed form, see model.go)
//   - Optimization: SGD and Adam
//   - Training loop: Epochs, shuffling, per-epoch reporting
//
// WHERE THIS SITS:
// This is the LEARNING component - how the model improves from data.
// model.go defines what the model computes; this file makes it fit the data.
//
// THE TRAINING PROCESS:
//
// 1. Forward Pass:
//    - Word ids → embedding-row sum + bias → per-label scores
//    - Scores → cross-entropy loss against the true label
//
// 2. Backward Pass:
//    - Softmax residual: g = softmax(scores), g[label] -= 1
//    - Each word occurrence adds g to its embedding row; the bias adds g
//
// 3. Optimization:
//    - Update rule: Parameter -= LearningRate * Gradient
//    - Adam adds momentum and per-parameter adaptive step sizes
//
// 4. Iteration:
//    - One update per example (batch size is one), training set reshuffled
//      every epoch, then a no-update accuracy pass over the held-out set
//    - Fixed number of epochs; no early stopping, no checkpointing
//
// KEY CONCEPTS:
//
// Per-example updates: noisy but effective for a convex-ish linear model;
// the shuffle decorrelates consecutive updates so no label run dominates.
//
// Pre-update accuracy: the training prediction is taken from the same
// forward pass that produced the loss, BEFORE the optimizer moves the
// parameters. Counting it after the update would flatter the number.
//
// ===========================================================================

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// TrainingConfig holds hyperparameters for training.
type TrainingConfig struct {
	// Optimization
	LearningRate float64
	WeightDecay  float64 // L2 regularization

	// Training
	Epochs int

	// Optimization algorithm
	Optimizer   string // "sgd", "adam"
	AdamBeta1   float64
	AdamBeta2   float64
	AdamEpsilon float64

	// Reproducibility: drives initialization and epoch shuffling
	Seed int64
}

// DefaultTrainingConfig returns sensible defaults.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		// Optimization
		LearningRate: 0.001, // Adam's customary default; stable for per-example updates
		WeightDecay:  0.0,

		// Training
		Epochs: 10,

		// Adam optimizer
		Optimizer:   "adam",
		AdamBeta1:   0.9,
		AdamBeta2:   0.999,
		AdamEpsilon: 1e-8,

		// Reproducibility
		Seed: 1,
	}
}

// Optimizer interface for different optimization algorithms.
type Optimizer interface {
	// Step performs a single optimization step.
	// Updates parameters using their gradients.
	Step(params []Param, lr float64)

	// ZeroGrad clears all gradients.
	ZeroGrad(params []Param)
}

// SGDOptimizer implements Stochastic Gradient Descent.
type SGDOptimizer struct {
	weightDecay float64
}

// NewSGDOptimizer creates an SGD optimizer.
func NewSGDOptimizer(weightDecay float64) *SGDOptimizer {
	return &SGDOptimizer{
		weightDecay: weightDecay,
	}
}

// Step updates parameters using SGD: param -= lr * (grad + weightDecay * param).
func (opt *SGDOptimizer) Step(params []Param, lr float64) {
	for _, p := range params {
		for i := range p.Data {
			// L2 regularization: add weight decay
			grad := p.Grad[i] + opt.weightDecay*p.Data[i]

			// Update: param -= lr * grad
			p.Data[i] -= lr * grad
		}
	}
}

// ZeroGrad clears gradients.
func (opt *SGDOptimizer) ZeroGrad(params []Param) {
	for _, p := range params {
		zeroFloats(p.Grad)
	}
}

// AdamOptimizer implements the Adam optimization algorithm.
//
// Adam combines:
//   - Momentum (moving average of gradients)
//   - RMSProp (moving average of squared gradients)
//   - Bias correction (accounts for initialization at zero)
//
// Update rule:
//   m_t = beta1 * m_{t-1} + (1 - beta1) * grad
//   v_t = beta2 * v_{t-1} + (1 - beta2) * grad²
//   m_hat = m_t / (1 - beta1^t)  // Bias correction
//   v_hat = v_t / (1 - beta2^t)
//   param -= lr * m_hat / (sqrt(v_hat) + epsilon)
type AdamOptimizer struct {
	beta1       float64
	beta2       float64
	epsilon     float64
	weightDecay float64

	// State (one buffer per parameter)
	m [][]float64 // First moment (momentum)
	v [][]float64 // Second moment (variance)
	t int         // Time step (for bias correction)
}

// NewAdamOptimizer creates an Adam optimizer.
func NewAdamOptimizer(params []Param, beta1, beta2, epsilon, weightDecay float64) *AdamOptimizer {
	// Initialize moment buffers (same sizes as parameters)
	m := make([][]float64, len(params))
	v := make([][]float64, len(params))

	for i, p := range params {
		m[i] = make([]float64, len(p.Data))
		v[i] = make([]float64, len(p.Data))
	}

	return &AdamOptimizer{
		beta1:       beta1,
		beta2:       beta2,
		epsilon:     epsilon,
		weightDecay: weightDecay,
		m:           m,
		v:           v,
		t:           0,
	}
}

// Step performs an Adam update.
func (opt *AdamOptimizer) Step(params []Param, lr float64) {
	opt.t++

	// Bias correction factors
	bias1 := 1.0 - math.Pow(opt.beta1, float64(opt.t))
	bias2 := 1.0 - math.Pow(opt.beta2, float64(opt.t))

	for i, p := range params {
		for j := range p.Data {
			// Gradient with weight decay
			grad := p.Grad[j] + opt.weightDecay*p.Data[j]

			// Update biased first moment
			opt.m[i][j] = opt.beta1*opt.m[i][j] + (1.0-opt.beta1)*grad

			// Update biased second moment
			opt.v[i][j] = opt.beta2*opt.v[i][j] + (1.0-opt.beta2)*grad*grad

			// Bias-corrected moments
			mHat := opt.m[i][j] / bias1
			vHat := opt.v[i][j] / bias2

			// Update parameter
			p.Data[j] -= lr * mHat / (math.Sqrt(vHat) + opt.epsilon)
		}
	}
}

// ZeroGrad clears gradients.
func (opt *AdamOptimizer) ZeroGrad(params []Param) {
	for _, p := range params {
		zeroFloats(p.Grad)
	}
}

// CrossEntropyLoss computes -log(softmax(scores)[target]).
//
// floats.LogSumExp shifts by the maximum internally, so large scores cannot
// overflow the exponentials.
func CrossEntropyLoss(scores []float64, target int) float64 {
	return floats.LogSumExp(scores) - scores[target]
}

// CrossEntropyBackward returns the gradient of the loss with respect to the
// scores: softmax(scores) with one subtracted at the target class.
func CrossEntropyBackward(scores []float64, target int) []float64 {
	logZ := floats.LogSumExp(scores)

	// Gradient: probs - one_hot(target)
	grad := make([]float64, len(scores))
	for i, s := range scores {
		grad[i] = math.Exp(s - logZ)
	}
	grad[target] -= 1.0

	return grad
}

// TrainStep performs a single training step on one example.
//
// It returns the loss and whether the prediction was correct, both taken
// from the forward pass BEFORE the optimizer moves the parameters.
func TrainStep(model *Model, ex Example, optimizer Optimizer, lr float64) (loss float64, correct bool) {
	// Zero gradients
	params := model.Parameters()
	optimizer.ZeroGrad(params)

	// Forward pass
	scores := model.Scores(ex.Words).RawVector().Data

	// Loss and pre-update prediction
	loss = CrossEntropyLoss(scores, ex.Label)
	correct = floats.MaxIdx(scores) == ex.Label

	// Backward (compute gradients)
	gradScores := CrossEntropyBackward(scores, ex.Label)
	model.Backward(ex.Words, gradScores)

	// Optimizer step
	optimizer.Step(params, lr)

	return loss, correct
}

// EpochStats captures one epoch of training.
type EpochStats struct {
	Epoch         int     // zero-based epoch index
	TrainLoss     float64 // average loss per training example
	TrainAccuracy float64
	TestAccuracy  float64
}

// Report formats the stats as the canonical one-line progress report.
func (s EpochStats) Report() string {
	return fmt.Sprintf("ITER: %d | train loss/sent: %.4f | train accuracy: %.4f | test accuracy: %.4f",
		s.Epoch, s.TrainLoss, s.TrainAccuracy, s.TestAccuracy)
}

// Train runs the full training schedule on the model.
//
// Each epoch makes one pass of per-example updates over the training set in
// a fresh random order, then one no-update accuracy pass over the held-out
// set, then prints one progress line. The loop always runs the configured
// number of epochs; the returned stats hold what was printed.
func Train(model *Model, trainSet, testSet []Example, config TrainingConfig) ([]EpochStats, error) {
	if len(trainSet) == 0 {
		return nil, fmt.Errorf("train: empty training set")
	}
	if len(testSet) == 0 {
		return nil, fmt.Errorf("train: empty test set")
	}
	if config.Epochs < 1 {
		return nil, fmt.Errorf("train: epochs must be positive, got %d", config.Epochs)
	}

	// Initialize optimizer
	params := model.Parameters()
	var optimizer Optimizer

	switch config.Optimizer {
	case "adam":
		optimizer = NewAdamOptimizer(params, config.AdamBeta1, config.AdamBeta2,
			config.AdamEpsilon, config.WeightDecay)
	case "sgd":
		optimizer = NewSGDOptimizer(config.WeightDecay)
	default:
		return nil, fmt.Errorf("train: unknown optimizer %q", config.Optimizer)
	}

	rng := rand.New(rand.NewSource(config.Seed))
	sampler := NewSampler(len(trainSet), rng)

	stats := make([]EpochStats, 0, config.Epochs)

	// Training loop
	for epoch := 0; epoch < config.Epochs; epoch++ {
		// Training pass: fresh visiting order every epoch
		totalLoss := 0.0
		numCorrect := 0

		for _, i := range sampler.Order() {
			loss, correct := TrainStep(model, trainSet[i], optimizer, config.LearningRate)
			totalLoss += loss
			if correct {
				numCorrect++
			}
		}

		// Evaluation pass: forward only, parameters untouched
		testAcc := Evaluate(model, testSet)

		s := EpochStats{
			Epoch:         epoch,
			TrainLoss:     totalLoss / float64(len(trainSet)),
			TrainAccuracy: float64(numCorrect) / float64(len(trainSet)),
			TestAccuracy:  testAcc,
		}
		fmt.Println(s.Report())
		stats = append(stats, s)
	}

	return stats, nil
}

// Evaluate computes accuracy over a dataset: forward passes only, no
// gradient computation, no parameter updates. The result does not depend on
// traversal order.
func Evaluate(model *Model, examples []Example) float64 {
	if len(examples) == 0 {
		return 0
	}

	numCorrect := 0
	for _, ex := range examples {
		if model.Predict(ex.Words) == ex.Label {
			numCorrect++
		}
	}

	return float64(numCorrect) / float64(len(examples))
}
