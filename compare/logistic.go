package compare

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// logistic is a minimal binary logistic-regression classifier, trained by
// full-batch gradient descent. It backs the distinguishability score: the
// closer its held-out accuracy is to 0.5, the less distinguishable the two
// datasets are.
type logistic struct {
	weights *mat.VecDense
	bias    float64
	rate    float64
	epochs  int
}

func newLogistic(numFeatures int) *logistic {
	return &logistic{
		weights: mat.NewVecDense(numFeatures, nil),
		rate:    0.1,
		epochs:  200,
	}
}

// fit trains the classifier on a design matrix and 0/1 labels
func (m *logistic) fit(x *mat.Dense, y []float64) {
	rows, cols := x.Dims()
	if rows == 0 {
		return
	}
	probs := mat.NewVecDense(rows, nil)
	diff := mat.NewVecDense(rows, nil)
	grad := mat.NewVecDense(cols, nil)
	for epoch := 0; epoch < m.epochs; epoch++ {
		probs.MulVec(x, m.weights)
		var biasGrad float64
		for i := 0; i < rows; i++ {
			p := sigmoid(probs.AtVec(i) + m.bias)
			d := p - y[i]
			diff.SetVec(i, d)
			biasGrad += d
		}
		grad.MulVec(x.T(), diff)
		m.weights.AddScaledVec(m.weights, -m.rate/float64(rows), grad)
		m.bias -= m.rate * biasGrad / float64(rows)
	}
}

// predict returns the 0/1 class of each row at a 0.5 probability threshold
func (m *logistic) predict(x *mat.Dense) []float64 {
	rows, _ := x.Dims()
	out := make([]float64, rows)
	if rows == 0 {
		return out
	}
	probs := mat.NewVecDense(rows, nil)
	probs.MulVec(x, m.weights)
	for i := 0; i < rows; i++ {
		if sigmoid(probs.AtVec(i)+m.bias) >= 0.5 {
			out[i] = 1
		}
	}
	return out
}

// score returns the mean accuracy of the classifier on a labeled design matrix
func (m *logistic) score(x *mat.Dense, y []float64) float64 {
	if len(y) == 0 {
		return math.NaN()
	}
	predicted := m.predict(x)
	correct := 0
	for i, p := range predicted {
		if p == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(y))
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}
