/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package segmenttrie

import (
	"math/rand"
	"strings"
	"testing"
)

var methods = []string{"GET", "POST", "PUT", "DELETE"}

// genSegment returns a path-like segment such as "bert-base_v2".
func genSegment(rng *rand.Rand, min, max int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789-_."
	n := min + rng.Intn(max-min+1)
	var b strings.Builder
	b.WriteByte(byte('a' + rng.Intn(26)))
	for i := 1; i < n; i++ {
		b.WriteByte(alphabet[rng.Intn(len(alphabet))])
	}
	return b.String()
}

// makePattern builds "METHOD/seg/..." with depth path segments, replacing
// every k-th segment with a wildcard when k > 0.
func makePattern(rng *rand.Rand, depth, wildcardEveryK int) string {
	segs := make([]string, 0, depth+1)
	segs = append(segs, methods[rng.Intn(len(methods))])
	for i := 0; i < depth; i++ {
		if wildcardEveryK > 0 && (i+1)%wildcardEveryK == 0 {
			segs = append(segs, Wildcard)
			continue
		}
		segs = append(segs, genSegment(rng, 3, 10))
	}
	return strings.Join(segs, "/")
}

// buildTrie inserts n patterns and returns keys that extend each pattern by
// two segments, the way a file path extends a tree route.
func buildTrie(b *testing.B, n, depth, wildcardEveryK int) (*Trie[int], []string) {
	rng := rand.New(rand.NewSource(1))
	tr := New[int]()
	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		p := makePattern(rng, depth, wildcardEveryK)
		if err := tr.Insert(p, i); err != nil {
			b.Fatalf("insert %q: %v", p, err)
		}
		parts := strings.Split(p, "/")
		for j := range parts {
			if parts[j] == Wildcard {
				parts[j] = genSegment(rng, 3, 10)
			}
		}
		keys = append(keys, strings.Join(parts, "/")+"/"+genSegment(rng, 3, 8)+"/"+genSegment(rng, 3, 8))
	}
	return tr, keys
}

func BenchmarkTrieInsert_N64_Depth5(b *testing.B)   { benchInsert(b, 64, 5, 0) }
func BenchmarkTrieInsert_N1024_Depth5(b *testing.B) { benchInsert(b, 1024, 5, 0) }

func benchInsert(b *testing.B, n, depth, wildcardEveryK int) {
	rng := rand.New(rand.NewSource(7))
	patterns := make([]string, n)
	for i := range patterns {
		patterns[i] = makePattern(rng, depth, wildcardEveryK)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr := New[int]()
		for j, p := range patterns {
			if err := tr.Insert(p, j); err != nil {
				b.Fatalf("insert: %v", err)
			}
		}
	}
}

func BenchmarkTrieMatch_N64_Depth5(b *testing.B)                 { benchMatch(b, 64, 5, 0) }
func BenchmarkTrieMatch_N64_Depth5_WildcardEvery2(b *testing.B)  { benchMatch(b, 64, 5, 2) }
func BenchmarkTrieMatch_N1024_Depth5_WildcardEvery3(b *testing.B) { benchMatch(b, 1024, 5, 3) }

func benchMatch(b *testing.B, n, depth, wildcardEveryK int) {
	tr, keys := buildTrie(b, n, depth, wildcardEveryK)
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < n/8+1; i++ {
		keys = append(keys, makePattern(rng, depth, 0)+"/miss")
	}
	b.ReportAllocs()
	b.ResetTimer()
	var sum int
	for i := 0; i < b.N; i++ {
		if v, ok := tr.Match(keys[i%len(keys)]); ok {
			sum += v
		}
	}
	if sum == -1 {
		b.Log("keep")
	}
}

func BenchmarkTrieMatchParallel_N1024_Depth5(b *testing.B) {
	tr, keys := buildTrie(b, 1024, 5, 0)
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		rng := rand.New(rand.NewSource(rand.Int63()))
		for pb.Next() {
			_, _ = tr.Match(keys[rng.Intn(len(keys))])
		}
	})
}
