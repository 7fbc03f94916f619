package spamsift

import "fmt"

// numClasses is fixed: the label set is closed (ham, spam).
const numClasses = 2

// ComputeClassWeights derives inverse-frequency multipliers from training
// label counts: total / (numClasses * count). Both labels must be present
// with a positive count, otherwise a weight would be undefined.
func ComputeClassWeights(counts map[Label]int) (ClassWeights, error) {
	for label := range counts {
		if _, err := ParseLabel(string(label)); err != nil {
			return ClassWeights{}, err
		}
	}

	ham := counts[LabelHam]
	spam := counts[LabelSpam]
	if ham <= 0 || spam <= 0 {
		return ClassWeights{}, fmt.Errorf("%w: need samples for both labels, got ham=%d spam=%d",
			ErrEmptyDataset, ham, spam)
	}

	total := float64(ham + spam)
	return ClassWeights{
		Ham:  total / (numClasses * float64(ham)),
		Spam: total / (numClasses * float64(spam)),
	}, nil
}
