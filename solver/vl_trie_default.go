//go:build vltrie

package solver

// newVertLabel builds the trie vertex-label store.
func newVertLabel(capHint int) vertLabel {
	return newVlTrie(capHint)
}
