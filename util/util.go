package util

import (
	"os"

	"github.com/jsphweid/notetree/constants"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

func EnsureOutputDir() string {
	dir := constants.GetOutDir()
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		panic("Could not create output dir: " + err.Error())
	}
	return dir
}

func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func SortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := GetKeys(m)
	slices.Sort(keys)
	return keys
}

func Min[A constraints.Ordered](a A, b A) A {
	if a > b {
		return b
	}
	return a
}

func Max[A constraints.Ordered](a A, b A) A {
	if a < b {
		return b
	}
	return a
}

func Clamp[A constraints.Ordered](v, lo, hi A) A {
	return Min(Max(v, lo), hi)
}
