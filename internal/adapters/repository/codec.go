package repository

import (
	"encoding/json"
	"fmt"

	"github.com/okian/ticketscan/internal/domain/types"
)

func encodeNumbers(ns []int) (string, error) {
	if ns == nil {
		ns = []int{}
	}
	b, err := json.Marshal(ns)
	if err != nil {
		return "", fmt.Errorf("encode numbers: %w", err)
	}
	return string(b), nil
}

func decodeNumbers(s string) ([]int, error) {
	var ns []int
	if s == "" {
		return ns, nil
	}
	if err := json.Unmarshal([]byte(s), &ns); err != nil {
		return nil, fmt.Errorf("decode numbers: %w", err)
	}
	if len(ns) == 0 {
		return nil, nil
	}
	return ns, nil
}

func encodeBreakdown(b map[types.Tier]int) (string, error) {
	if len(b) == 0 {
		return "{}", nil
	}
	out, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("encode breakdown: %w", err)
	}
	return string(out), nil
}

func decodeBreakdown(s []byte) (map[types.Tier]int, error) {
	if len(s) == 0 {
		return nil, nil
	}
	var b map[types.Tier]int
	if err := json.Unmarshal(s, &b); err != nil {
		return nil, fmt.Errorf("decode breakdown: %w", err)
	}
	if len(b) == 0 {
		return nil, nil
	}
	return b, nil
}
