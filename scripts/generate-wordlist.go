//go:build ignore

// Package main generates a synthetic wordlist and a matching hash file for
// benchmarking cracks.
// Usage: go run scripts/generate-wordlist.go -words 1000000 -hashes 20 -type sha256 -output testdata/bench
//
// The hash file mixes digests of words from the list with digests of words
// that are absent, so both early stops and full scans are exercised.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/Aman-CERP/digestcrack/internal/digest"
)

var (
	numWords  = flag.Int("words", 1_000_000, "Number of words to generate")
	numHashes = flag.Int("hashes", 20, "Number of target digests to generate")
	missRatio = flag.Float64("miss", 0.25, "Fraction of targets absent from the wordlist")
	hashType  = flag.String("type", "md5", "Hash type: md5, sha1, sha256, sha512")
	outputDir = flag.String("output", "testdata/bench", "Output directory")
	seed      = flag.Int64("seed", 42, "Random seed for reproducibility")
)

var syllables = []string{
	"ka", "lo", "mi", "ne", "su", "ta", "ri", "po", "ve", "zu",
	"an", "el", "or", "ux", "ing", "ter", "ack", "orm", "ist", "ent",
}

func main() {
	flag.Parse()

	ht, err := digest.Parse(*hashType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	hash := ht.Func()
	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generating %d words in %s...\n", *numWords, *outputDir)

	words := make([]string, *numWords)
	seen := make(map[string]bool, *numWords)
	for i := range words {
		w := randomWord(rng)
		for seen[w] {
			w = fmt.Sprintf("%s%d", w, rng.Intn(10))
		}
		seen[w] = true
		words[i] = w
	}

	dictPath := filepath.Join(*outputDir, "words.txt")
	if err := writeLines(dictPath, words); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing wordlist: %v\n", err)
		os.Exit(1)
	}

	hashes := make([]string, *numHashes)
	for i := range hashes {
		if rng.Float64() < *missRatio {
			hashes[i] = hash(fmt.Sprintf("absent-%d-%d", *seed, i))
			continue
		}
		hashes[i] = hash(words[rng.Intn(len(words))])
	}

	hashPath := filepath.Join(*outputDir, "hashes."+ht.Ext())
	if err := writeLines(hashPath, hashes); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing hash file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s and %s successfully.\n", dictPath, hashPath)
	fmt.Printf("Run: digestcrack -f %s -d %s -t 4\n", hashPath, dictPath)
}

func randomWord(rng *rand.Rand) string {
	n := 2 + rng.Intn(3)
	w := ""
	for range n {
		w += syllables[rng.Intn(len(syllables))]
	}
	return w
}

func writeLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			_ = f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
