package policy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrDimensionMismatch is returned when a stored policy does not match the
// current discretization dimensions.
var ErrDimensionMismatch = errors.New("policy dimensions do not match discretization")

// Champion is the on-disk format for a trained policy: the flat weight vector
// plus the discretization metadata needed to validate reuse.
type Champion struct {
	Generation int       `json:"generation"`
	Reward     float64   `json:"reward"`
	Progress   int       `json:"progress"`
	AngleBins  int       `json:"angle_bins"`
	SpeedBins  int       `json:"speed_bins"`
	Actions    int       `json:"actions"`
	Weights    []float64 `json:"weights"`
}

// SaveChampion writes the policy and its training metadata to a file
func SaveChampion(path string, p *Policy, generation int, reward float64, progress int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data := Champion{
		Generation: generation,
		Reward:     reward,
		Progress:   progress,
		AngleBins:  p.AngleBins,
		SpeedBins:  p.SpeedBins,
		Actions:    p.Actions,
		Weights:    p.Weights,
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, jsonData, 0644)
}

// LoadChampion loads a saved policy and validates it against the expected
// discretization before it can be reused.
func LoadChampion(path string, angleBins, speedBins, actions int) (*Policy, *Champion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var saved Champion
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, nil, err
	}

	if saved.AngleBins != angleBins || saved.SpeedBins != speedBins || saved.Actions != actions {
		return nil, nil, fmt.Errorf("%w: stored %dx%dx%d, expected %dx%dx%d",
			ErrDimensionMismatch,
			saved.AngleBins, saved.SpeedBins, saved.Actions,
			angleBins, speedBins, actions)
	}
	if len(saved.Weights) != angleBins*speedBins*actions {
		return nil, nil, fmt.Errorf("%w: %d weights for a %dx%dx%d table",
			ErrDimensionMismatch, len(saved.Weights), angleBins, speedBins, actions)
	}

	return FromWeights(angleBins, speedBins, actions, saved.Weights), &saved, nil
}
