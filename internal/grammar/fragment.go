// Package grammar composes the regular-expression grammar used to read
// annotations in plenary transcripts. Fragments are built with small
// combinators and compiled once; no pattern is assembled by string formatting.
package grammar

import (
	"regexp"
	"sort"
	"strings"
)

// Fragment is a piece of regular-expression grammar
type Fragment struct {
	src string
}

// Raw wraps regular-expression source as a fragment
func Raw(src string) Fragment { return Fragment{src: src} }

// Lit matches s literally
func Lit(s string) Fragment { return Fragment{src: regexp.QuoteMeta(s)} }

// Seq concatenates fragments
func Seq(parts ...Fragment) Fragment {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.src)
	}
	return Fragment{src: b.String()}
}

// Alt matches the first alternative that lets the whole pattern match
func Alt(parts ...Fragment) Fragment {
	srcs := make([]string, len(parts))
	for i, p := range parts {
		srcs[i] = p.src
	}
	return Fragment{src: "(?:" + strings.Join(srcs, "|") + ")"}
}

// Opt makes f optional
func Opt(f Fragment) Fragment { return Fragment{src: "(?:" + f.src + ")?"} }

// Star repeats f zero or more times
func Star(f Fragment) Fragment { return Fragment{src: "(?:" + f.src + ")*"} }

// Plus repeats f one or more times
func Plus(f Fragment) Fragment { return Fragment{src: "(?:" + f.src + ")+"} }

// Named captures f under name
func Named(name string, f Fragment) Fragment {
	return Fragment{src: "(?P<" + name + ">" + f.src + ")"}
}

// NotIn matches one character not contained in excluded
func NotIn(excluded string) Fragment {
	return Fragment{src: "[^" + escapeClass(excluded) + "]"}
}

// WordExcept matches a run of characters outside excluded that is not
// exactly one of words. The run is built from a trie of the words, so a
// proper prefix such as "un" still matches while "und" does not.
func WordExcept(excluded string, words ...string) Fragment {
	root := newTrie()
	for _, w := range words {
		root.insert(w)
	}
	return Fragment{src: root.complement(excluded, true)}
}

// String returns the regular-expression source
func (f Fragment) String() string { return f.src }

// Compile compiles the fragment; grammar is static so failure is a bug
func (f Fragment) Compile() *regexp.Regexp {
	return regexp.MustCompile(f.src)
}

type trieNode struct {
	children map[rune]*trieNode
	terminal bool
}

func newTrie() *trieNode {
	return &trieNode{children: make(map[rune]*trieNode)}
}

func (n *trieNode) insert(word string) {
	cur := n
	for _, r := range word {
		next, ok := cur.children[r]
		if !ok {
			next = newTrie()
			cur.children[r] = next
		}
		cur = next
	}
	cur.terminal = true
}

func (n *trieNode) complement(excluded string, root bool) string {
	keys := make([]rune, 0, len(n.children))
	for r := range n.children {
		keys = append(keys, r)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	anyChar := "[^" + escapeClass(excluded) + "]"
	alts := []string{"[^" + escapeClass(excluded+string(keys)) + "]" + anyChar + "*"}
	for _, r := range keys {
		alts = append(alts, regexp.QuoteMeta(string(r))+n.children[r].complement(excluded, false))
	}

	group := "(?:" + strings.Join(alts, "|") + ")"
	if !root && !n.terminal {
		group += "?"
	}
	return group
}

func escapeClass(chars string) string {
	var b strings.Builder
	for _, r := range chars {
		switch r {
		case '\\', ']', '[', '^', '-':
			b.WriteRune('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
