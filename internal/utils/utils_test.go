package utils

import "testing"

func TestPtr(t *testing.T) {
	value := 42
	ptr := Ptr(value)
	if ptr == nil || *ptr != value {
		t.Fatalf("Expected pointer to %d, got %v", value, ptr)
	}

	*ptr = 7
	if value != 42 {
		t.Fatalf("Expected the original value to be untouched, got %d", value)
	}
}

func TestClamp(t *testing.T) {
	testCases := []struct {
		name         string
		v, low, high float64
		expected     float64
	}{
		{name: "below range", v: -0.5, low: 0, high: 1, expected: 0},
		{name: "in range", v: 0.5, low: 0, high: 1, expected: 0.5},
		{name: "above range", v: 1.5, low: 0, high: 1, expected: 1},
		{name: "at low bound", v: 0, low: 0, high: 1, expected: 0},
		{name: "at high bound", v: 1, low: 0, high: 1, expected: 1},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := Clamp(testCase.v, testCase.low, testCase.high); got != testCase.expected {
				t.Fatalf("Expected %v, got %v", testCase.expected, got)
			}
		})
	}

	if got := Clamp(5, 1, 3); got != 3 {
		t.Fatalf("Expected 3, got %d", got)
	}
}
