package verify

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Submission is a signed claim that Board solves LevelID.
// Board holds an encoded board file as produced by formats.EncodeBoard.
type Submission struct {
	LevelID   string
	Player    string
	Board     []byte
	Signature string
}

// yamlSubmission is the on-disk form of a Submission.
type yamlSubmission struct {
	Level     string `yaml:"level"`
	Player    string `yaml:"player"`
	Board     string `yaml:"board"`
	Signature string `yaml:"signature"`
}

// EncodeSubmission serializes sub to YAML.
func EncodeSubmission(sub Submission) ([]byte, error) {
	data, err := yaml.Marshal(&yamlSubmission{
		Level:     sub.LevelID,
		Player:    sub.Player,
		Board:     string(sub.Board),
		Signature: sub.Signature,
	})
	if err != nil {
		return nil, fmt.Errorf("verify: encode submission: %w", err)
	}
	return data, nil
}

// DecodeSubmission parses a YAML submission.
func DecodeSubmission(data []byte) (Submission, error) {
	var ys yamlSubmission
	if err := yaml.Unmarshal(data, &ys); err != nil {
		return Submission{}, fmt.Errorf("verify: decode submission: %w", err)
	}
	if ys.Level == "" {
		return Submission{}, fmt.Errorf("verify: decode submission: missing level")
	}
	return Submission{
		LevelID:   ys.Level,
		Player:    ys.Player,
		Board:     []byte(ys.Board),
		Signature: ys.Signature,
	}, nil
}
