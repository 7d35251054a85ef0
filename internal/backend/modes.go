package backend

import (
	"fmt"
	"strings"
)

// MemoryMode selects the engine's memory/speed trade-off.
type MemoryMode string

const (
	MemoryLow      MemoryMode = "LOW"
	MemoryBalanced MemoryMode = "BALANCED"
	MemoryHigh     MemoryMode = "HIGH"
)

// PrecisionMode selects arithmetic precision on backends that support it.
type PrecisionMode string

const (
	PrecisionLow    PrecisionMode = "LOW"
	PrecisionNormal PrecisionMode = "NORMAL"
	PrecisionHigh   PrecisionMode = "HIGH"
)

// PowerMode selects the power hint passed to the engine.
type PowerMode string

const (
	PowerLow    PowerMode = "LOW"
	PowerNormal PowerMode = "NORMAL"
	PowerHigh   PowerMode = "HIGH"
)

// FillPolicy describes how synthetic input tensors are populated.
type FillPolicy string

const (
	FillZero    FillPolicy = "ZERO"
	FillOne     FillPolicy = "ONE"
	FillUniform FillPolicy = "UNIFORM"
	FillNormal  FillPolicy = "NORMAL"
)

// Defaults applied when a request leaves a field out.
const (
	DefaultMemory    = MemoryBalanced
	DefaultPrecision = PrecisionNormal
	DefaultPower     = PowerNormal
	DefaultFill      = FillZero
	DefaultThreads   = 4
)

func ParseMemory(s string) (MemoryMode, error) {
	v, err := pick(s, "memoryMode", string(DefaultMemory), "LOW", "BALANCED", "HIGH")
	return MemoryMode(v), err
}

func ParsePrecision(s string) (PrecisionMode, error) {
	v, err := pick(s, "precisionMode", string(DefaultPrecision), "LOW", "NORMAL", "HIGH")
	return PrecisionMode(v), err
}

func ParsePower(s string) (PowerMode, error) {
	v, err := pick(s, "powerMode", string(DefaultPower), "LOW", "NORMAL", "HIGH")
	return PowerMode(v), err
}

func ParseFill(s string) (FillPolicy, error) {
	v, err := pick(s, "inputFill", string(DefaultFill), "ZERO", "ONE", "UNIFORM", "NORMAL")
	return FillPolicy(v), err
}

func pick(s, field, def string, allowed ...string) (string, error) {
	n := strings.ToUpper(strings.TrimSpace(s))
	if n == "" {
		return def, nil
	}
	for _, a := range allowed {
		if n == a {
			return a, nil
		}
	}
	return "", fmt.Errorf("invalid %s %q (expected one of %s)", field, s, strings.Join(allowed, ", "))
}
