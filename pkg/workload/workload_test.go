package workload

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/marmos91/dittotree/internal/pathutil"
)

func TestAlphabet(t *testing.T) {
	tests := []struct {
		name    string
		folders int
		depth   int
	}{
		{"small", 10, 2},
		{"default", 50, 3},
		{"deep", 30, 5},
		{"single", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := Alphabet(tt.folders, tt.depth)
			if len(paths) != tt.folders {
				t.Fatalf("Alphabet(%d, %d) returned %d paths", tt.folders, tt.depth, len(paths))
			}

			seen := map[string]bool{}
			for i, path := range paths {
				if !pathutil.IsValid(path) {
					t.Fatalf("path %q is not valid", path)
				}
				if seen[path] {
					t.Fatalf("path %q appears twice", path)
				}
				seen[path] = true

				if depth := strings.Count(path, "/") - 1; depth > tt.depth {
					t.Fatalf("path %q exceeds depth %d", path, tt.depth)
				}

				// A parent always precedes its children, so creating the
				// alphabet in order populates the tree without gaps.
				parent, _, _ := pathutil.Parent(path)
				if parent != "/" && !seen[parent] {
					t.Fatalf("path %q (index %d) precedes its parent %q", path, i, parent)
				}
			}
		})
	}
}

func TestAlphabetDeterministic(t *testing.T) {
	a := Alphabet(50, 3)
	b := Alphabet(50, 3)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("alphabet not deterministic at index %d: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestUniformGenerator(t *testing.T) {
	generator, err := NewUniform(20, 3)
	if err != nil {
		t.Fatalf("NewUniform failed: %v", err)
	}

	rng := rand.New(rand.NewSource(1))
	kinds := map[Kind]int{}
	for range 1000 {
		op := generator.Next(rng)
		kinds[op.Kind]++
		if !pathutil.IsValid(op.Path) {
			t.Fatalf("generated invalid path %q", op.Path)
		}
		if op.Kind == KindMove {
			if !pathutil.IsValid(op.Target) {
				t.Fatalf("generated invalid move target %q", op.Target)
			}
		} else if op.Target != "" {
			t.Fatalf("%s op carries a target", op.Kind)
		}
	}

	for _, kind := range []Kind{KindList, KindCreate, KindRemove, KindMove} {
		if kinds[kind] == 0 {
			t.Fatalf("mix never produced %s", kind)
		}
	}
}

func TestUniformGeneratorDeterministic(t *testing.T) {
	generator, err := NewUniform(20, 3)
	if err != nil {
		t.Fatalf("NewUniform failed: %v", err)
	}

	a := rand.New(rand.NewSource(99))
	b := rand.New(rand.NewSource(99))
	for i := range 200 {
		opA, opB := generator.Next(a), generator.Next(b)
		if opA != opB {
			t.Fatalf("same seed diverged at op %d: %+v vs %+v", i, opA, opB)
		}
	}
}

func TestHotspotGenerator(t *testing.T) {
	generator, err := NewHotspot(40, 3, 0.9)
	if err != nil {
		t.Fatalf("NewHotspot failed: %v", err)
	}

	hotPrefix := Alphabet(40, 3)[0]
	rng := rand.New(rand.NewSource(5))
	hot := 0
	const total = 2000
	for range total {
		op := generator.Next(rng)
		if !pathutil.IsValid(op.Path) {
			t.Fatalf("generated invalid path %q", op.Path)
		}
		if op.Path == hotPrefix || strings.HasPrefix(op.Path, hotPrefix) {
			hot++
		}
	}

	// With bias 0.9 the hot subtree should dominate clearly; the exact
	// share depends on how much of the alphabet lies under the prefix.
	if hot < total/2 {
		t.Fatalf("hotspot bias ineffective: only %d of %d ops hit the hot subtree", hot, total)
	}
}

func TestHotspotGeneratorRejectsBadBias(t *testing.T) {
	if _, err := NewHotspot(10, 2, 1.5); err == nil {
		t.Fatal("expected error for bias > 1")
	}
	if _, err := NewHotspot(10, 2, -0.1); err == nil {
		t.Fatal("expected error for negative bias")
	}
	if _, err := NewUniform(0, 2); err == nil {
		t.Fatal("expected error for zero folders")
	}
}
