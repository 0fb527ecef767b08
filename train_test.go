package main

import (
	"math"
	"strings"
	"testing"
)

func TestCrossEntropyLossUniform(t *testing.T) {
	// Equal scores: loss is ln(number of labels)
	loss := CrossEntropyLoss([]float64{0, 0}, 0)
	if diff := math.Abs(loss - math.Ln2); diff > 1e-12 {
		t.Errorf("loss = %v, want ln 2 (diff %v)", loss, diff)
	}
}

func TestCrossEntropyLossStable(t *testing.T) {
	// Huge score gaps must not overflow the exponentials
	loss := CrossEntropyLoss([]float64{1000, 0}, 0)
	if math.IsNaN(loss) || math.IsInf(loss, 0) {
		t.Fatalf("loss is not finite: %v", loss)
	}
	if loss < 0 || loss > 1e-9 {
		t.Errorf("loss = %v, want ~0 for a confidently correct score", loss)
	}
}

func TestCrossEntropyLossNonNegative(t *testing.T) {
	cases := [][]float64{
		{0.5, -0.5, 0.1},
		{-3, -2, -1},
		{10, 10, 10},
		{1e6, -1e6},
	}
	for _, scores := range cases {
		for target := range scores {
			if loss := CrossEntropyLoss(scores, target); loss < 0 {
				t.Errorf("loss(%v, %d) = %v, want >= 0", scores, target, loss)
			}
		}
	}
}

func TestCrossEntropyBackward(t *testing.T) {
	grad := CrossEntropyBackward([]float64{0, 0}, 0)

	// softmax([0,0]) = [0.5, 0.5]; subtract one at the target
	if diff := math.Abs(grad[0] - (-0.5)); diff > 1e-12 {
		t.Errorf("grad[0] = %v, want -0.5", grad[0])
	}
	if diff := math.Abs(grad[1] - 0.5); diff > 1e-12 {
		t.Errorf("grad[1] = %v, want 0.5", grad[1])
	}

	// The residual always sums to zero: probabilities sum to one
	sum := 0.0
	for _, g := range CrossEntropyBackward([]float64{1.5, -0.25, 3}, 2) {
		sum += g
	}
	if math.Abs(sum) > 1e-12 {
		t.Errorf("residual sums to %v, want 0", sum)
	}
}

func TestSGDOptimizerStep(t *testing.T) {
	params := []Param{{Data: []float64{1.0}, Grad: []float64{0.5}}}
	opt := NewSGDOptimizer(0)

	// 1 - 0.25*0.5 = 0.875, exact in binary
	opt.Step(params, 0.25)
	if got := params[0].Data[0]; got != 0.875 {
		t.Errorf("param = %v, want 0.875", got)
	}
}

func TestSGDOptimizerWeightDecay(t *testing.T) {
	params := []Param{{Data: []float64{1.0}, Grad: []float64{0}}}
	opt := NewSGDOptimizer(0.5)

	// Zero gradient still shrinks the weight: 1 - 0.5*(0.5*1) = 0.75
	opt.Step(params, 0.5)
	if got := params[0].Data[0]; got != 0.75 {
		t.Errorf("param = %v, want 0.75", got)
	}
}

func TestOptimizerZeroGrad(t *testing.T) {
	params := []Param{{Data: []float64{1, 2}, Grad: []float64{0.5, -0.5}}}

	NewSGDOptimizer(0).ZeroGrad(params)
	for i, g := range params[0].Grad {
		if g != 0 {
			t.Errorf("grad[%d] = %v after ZeroGrad", i, g)
		}
	}
}

func TestAdamOptimizerFirstStep(t *testing.T) {
	params := []Param{{Data: []float64{1.0, 1.0}, Grad: []float64{1.0, -1.0}}}
	opt := NewAdamOptimizer(params, 0.9, 0.999, 1e-8, 0)

	// Bias correction makes the first step very nearly lr in the gradient's
	// direction: mHat = g, vHat = g², update = lr*g/(|g|+eps)
	opt.Step(params, 0.001)

	if diff := math.Abs(params[0].Data[0] - 0.999); diff > 1e-6 {
		t.Errorf("param[0] = %v, want ~0.999", params[0].Data[0])
	}
	if diff := math.Abs(params[0].Data[1] - 1.001); diff > 1e-6 {
		t.Errorf("param[1] = %v, want ~1.001", params[0].Data[1])
	}
}

func TestAdamOptimizerKeepsDescending(t *testing.T) {
	params := []Param{{Data: []float64{1.0}, Grad: []float64{1.0}}}
	opt := NewAdamOptimizer(params, 0.9, 0.999, 1e-8, 0)

	prev := params[0].Data[0]
	for step := 0; step < 5; step++ {
		opt.Step(params, 0.001)
		got := params[0].Data[0]
		if got >= prev {
			t.Fatalf("step %d: param %v did not decrease from %v", step, got, prev)
		}
		prev = got
	}
}

func TestTrainStepReducesLossOnRepeat(t *testing.T) {
	m := newTestModel(4, 2)
	ex := Example{Words: []int{1, 2}, Label: 0}
	opt := NewSGDOptimizer(0)

	loss1, _ := TrainStep(m, ex, opt, 0.1)
	loss2, _ := TrainStep(m, ex, opt, 0.1)

	if loss2 >= loss1 {
		t.Errorf("loss did not decrease: %v -> %v", loss1, loss2)
	}
}

func TestTrainStepCorrectFlag(t *testing.T) {
	m := newTestModel(2, 2)
	zeroFloats(m.emb.RawMatrix().Data)
	m.bias.SetVec(0, 1.0)

	// Argmax is always label 0
	opt := NewSGDOptimizer(0)
	if _, correct := TrainStep(m, Example{Words: []int{1}, Label: 0}, opt, 1e-9); !correct {
		t.Error("expected a correct prediction for label 0")
	}

	m2 := newTestModel(2, 2)
	zeroFloats(m2.emb.RawMatrix().Data)
	m2.bias.SetVec(0, 1.0)
	if _, correct := TrainStep(m2, Example{Words: []int{1}, Label: 1}, opt, 1e-9); correct {
		t.Error("expected an incorrect prediction for label 1")
	}
}

func TestTrainEndToEnd(t *testing.T) {
	rawTrain, err := ReadExamples(strings.NewReader("0 ||| good movie\n1 ||| bad movie\n"))
	if err != nil {
		t.Fatalf("read train: %v", err)
	}
	rawTest, err := ReadExamples(strings.NewReader("0 ||| good film\n"))
	if err != nil {
		t.Fatalf("read test: %v", err)
	}

	vocab, labels := BuildVocabulary(rawTrain)

	// Training words get real, distinct ids; the unseen test word folds
	for _, w := range []string{"good", "movie", "bad"} {
		if vocab.ID(w) == UnkID {
			t.Errorf("training word %q folded to the unknown id", w)
		}
	}
	if vocab.ID("good") == vocab.ID("bad") {
		t.Error("distinct words share an id")
	}
	if got := vocab.ID("film"); got != UnkID {
		t.Errorf("ID(%q) = %d, want %d", "film", got, UnkID)
	}
	if labels.Size() != 2 {
		t.Fatalf("label count = %d, want 2", labels.Size())
	}

	trainSet, err := Encode(rawTrain, vocab, labels)
	if err != nil {
		t.Fatalf("encode train: %v", err)
	}
	testSet, err := Encode(rawTest, vocab, labels)
	if err != nil {
		t.Fatalf("encode test: %v", err)
	}

	m := newTestModel(vocab.Size(), labels.Size())
	config := DefaultTrainingConfig()
	config.Epochs = 1

	stats, err := Train(m, trainSet, testSet, config)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("expected 1 epoch of stats, got %d", len(stats))
	}

	s := stats[0]
	if math.IsNaN(s.TrainLoss) || math.IsInf(s.TrainLoss, 0) || s.TrainLoss < 0 {
		t.Errorf("train loss = %v, want finite and non-negative", s.TrainLoss)
	}
	if s.TrainAccuracy < 0 || s.TrainAccuracy > 1 {
		t.Errorf("train accuracy = %v, want within [0, 1]", s.TrainAccuracy)
	}
	if s.TestAccuracy < 0 || s.TestAccuracy > 1 {
		t.Errorf("test accuracy = %v, want within [0, 1]", s.TestAccuracy)
	}

	// The prediction lands on a label that exists
	if got := m.Predict(testSet[0].Words); got < 0 || got >= labels.Size() {
		t.Errorf("prediction %d outside known labels", got)
	}
}

func TestTrainLossDecreasesOverEpochs(t *testing.T) {
	rawTrain, _ := ReadExamples(strings.NewReader("0 ||| good movie\n1 ||| bad movie\n"))
	rawTest, _ := ReadExamples(strings.NewReader("0 ||| good film\n"))
	vocab, labels := BuildVocabulary(rawTrain)
	trainSet, _ := Encode(rawTrain, vocab, labels)
	testSet, _ := Encode(rawTest, vocab, labels)

	m := newTestModel(vocab.Size(), labels.Size())
	config := DefaultTrainingConfig()
	config.Optimizer = "sgd"
	config.LearningRate = 0.1
	config.Epochs = 10
	config.Seed = 3

	stats, err := Train(m, trainSet, testSet, config)
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	first, last := stats[0].TrainLoss, stats[len(stats)-1].TrainLoss
	if last >= first {
		t.Errorf("train loss did not decrease: %v -> %v", first, last)
	}
	for _, s := range stats {
		if s.TrainAccuracy < 0 || s.TrainAccuracy > 1 || s.TestAccuracy < 0 || s.TestAccuracy > 1 {
			t.Errorf("epoch %d: accuracy outside [0, 1]: %+v", s.Epoch, s)
		}
	}
}

func TestTrainValidation(t *testing.T) {
	m := newTestModel(2, 2)
	some := []Example{{Words: []int{1}, Label: 0}}
	config := DefaultTrainingConfig()

	if _, err := Train(m, nil, some, config); err == nil {
		t.Error("expected error for empty training set")
	}
	if _, err := Train(m, some, nil, config); err == nil {
		t.Error("expected error for empty test set")
	}

	config.Epochs = 0
	if _, err := Train(m, some, some, config); err == nil {
		t.Error("expected error for zero epochs")
	}

	config = DefaultTrainingConfig()
	config.Optimizer = "adagrad"
	if _, err := Train(m, some, some, config); err == nil {
		t.Error("expected error for unknown optimizer")
	}
}

func TestEvaluateExact(t *testing.T) {
	m := newTestModel(2, 2)
	zeroFloats(m.emb.RawMatrix().Data)
	m.bias.SetVec(0, 1.0)

	// Every prediction is label 0; three of four examples agree
	examples := []Example{
		{Words: []int{1}, Label: 0},
		{Words: []int{0}, Label: 0},
		{Words: []int{1}, Label: 1},
		{Words: nil, Label: 0},
	}

	if got := Evaluate(m, examples); got != 0.75 {
		t.Errorf("accuracy = %v, want 0.75", got)
	}
}

func TestEvaluateEmpty(t *testing.T) {
	m := newTestModel(2, 2)
	if got := Evaluate(m, nil); got != 0 {
		t.Errorf("accuracy of empty set = %v, want 0", got)
	}
}

func TestEpochStatsReport(t *testing.T) {
	s := EpochStats{
		Epoch:         0,
		TrainLoss:     1.0625,
		TrainAccuracy: 0.5,
		TestAccuracy:  0.25,
	}

	want := "ITER: 0 | train loss/sent: 1.0625 | train accuracy: 0.5000 | test accuracy: 0.2500"
	if got := s.Report(); got != want {
		t.Errorf("report = %q, want %q", got, want)
	}
}

func BenchmarkTrainStep(b *testing.B) {
	m := newTestModel(1000, 5)
	ex := Example{Words: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, Label: 2}
	opt := NewAdamOptimizer(m.Parameters(), 0.9, 0.999, 1e-8, 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		TrainStep(m, ex, opt, 0.001)
	}
}
