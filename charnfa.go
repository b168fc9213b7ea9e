// Package charnfa rewrites character streams with a character-range NFA.
//
// A Normalizer wraps an nfa.Automaton whose terminal states carry
// converters. At each position of the input the longest prefix accepted by
// some rule is replaced by that rule's output; characters no rule accepts
// are copied unchanged.
//
// Basic usage:
//
//	rs, err := rules.Load(ctx, "fold.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	n, err := charnfa.Compile(rs, charnfa.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := n.NormalizeString("Straße") // "strasse"
//
// Streaming usage goes through golang.org/x/text/transform:
//
//	r := transform.NewReader(os.Stdin, n.Transformer())
//
// A Normalizer is safe for concurrent use; calls are serialized because
// matching records captures inside the automaton.
package charnfa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/transform"

	"github.com/coregx/charnfa/internal/logging"
	"github.com/coregx/charnfa/nfa"
	"github.com/coregx/charnfa/prefilter"
	"github.com/coregx/charnfa/rules"
)

// maxScratch caps the output buffer grown for a single rule.
const maxScratch = 1 << 24

// maxLookahead matches the source buffer size of transform.Reader and
// transform.Writer, so a pending match that fills their buffer is ended
// instead of waiting for input that cannot arrive.
const maxLookahead = 4096

// Normalizer applies a compiled automaton to text.
type Normalizer struct {
	mu      sync.Mutex
	a       *nfa.Automaton
	pf      prefilter.Prefilter
	config  Config
	scratch []rune
}

// New wraps an already built automaton.
// The automaton must not be modified afterwards.
func New(a *nfa.Automaton, config Config) (*Normalizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	n := &Normalizer{
		a:       a,
		config:  config,
		scratch: make([]rune, config.InitialBuffer),
	}
	if config.EnablePrefilter {
		n.pf = prefilter.FromAutomaton(a, config.MaxPrefilterRunes)
	}
	return n, nil
}

// Compile builds a Normalizer from a rule set.
func Compile(rs *rules.RuleSet, config Config) (*Normalizer, error) {
	return CompileContext(context.Background(), rs, config)
}

// CompileContext is Compile with a context carrying the logger.
func CompileContext(ctx context.Context, rs *rules.RuleSet, config Config) (*Normalizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	a := nfa.NewWithLimits(config.LoopLimit, config.MaxDepth)
	if err := rs.Build(a); err != nil {
		return nil, err
	}
	n, err := New(a, config)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug("compiled rule set",
		logging.FieldRules, rs.Name,
		logging.FieldStates, a.States(),
		logging.FieldBackrefs, a.Backrefs(),
		logging.FieldPrefilter, prefilterName(n.pf),
	)
	return n, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(rs *rules.RuleSet, config Config) *Normalizer {
	n, err := Compile(rs, config)
	if err != nil {
		panic("charnfa: Compile(" + rs.Name + "): " + err.Error())
	}
	return n
}

// Automaton returns the underlying automaton.
func (n *Normalizer) Automaton() *nfa.Automaton {
	return n.a
}

// Prefilter returns the prefilter in use, nil if every position is matched.
func (n *Normalizer) Prefilter() prefilter.Prefilter {
	return n.pf
}

// Config returns the configuration the Normalizer was built with.
func (n *Normalizer) Config() Config {
	return n.config
}

// Normalize rewrites a complete input.
func (n *Normalizer) Normalize(in []rune) ([]rune, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]rune, 0, len(in))
	for len(in) > 0 {
		nIn, emitted, err := convertStep(n.a, in, &n.scratch, true)
		if err != nil {
			return out, err
		}
		out = append(out, emitted...)
		in = in[nIn:]
	}
	return out, nil
}

// NormalizeString rewrites a complete UTF-8 string.
// Invalid UTF-8 bytes are treated as utf8.RuneError.
func (n *Normalizer) NormalizeString(s string) (string, error) {
	out, err := n.NormalizeBytes([]byte(s))
	return string(out), err
}

// NormalizeBytes rewrites a complete UTF-8 buffer.
// On error the output produced so far is returned.
func (n *Normalizer) NormalizeBytes(src []byte) ([]byte, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	runes, offs, _ := decode(nil, nil, src, true)
	dst := make([]byte, 0, len(src))
	for i := 0; i < len(runes); {
		if n.pf != nil {
			j := skipTo(offs, i, n.pf.Find(src, offs[i]))
			dst = appendRunes(dst, runes[i:j])
			if i = j; i == len(runes) {
				break
			}
		}
		nIn, emitted, err := convertStep(n.a, runes[i:], &n.scratch, true)
		if err != nil {
			return dst, err
		}
		dst = appendRunes(dst, emitted)
		i += nIn
	}
	return dst, nil
}

// Reader returns a reader producing the normalized form of r.
func (n *Normalizer) Reader(r io.Reader) io.Reader {
	return transform.NewReader(r, n.Transformer())
}

// Writer returns a writer normalizing everything written to w.
// The caller must Close it to flush pending input.
func (n *Normalizer) Writer(w io.Writer) io.WriteCloser {
	return transform.NewWriter(w, n.Transformer())
}

// Transformer returns a transform.Transformer applying n.
// Each Transformer keeps its own buffers and may be used by one goroutine.
func (n *Normalizer) Transformer() transform.Transformer {
	return &transformer{n: n, scratch: make([]rune, n.config.InitialBuffer)}
}

type transformer struct {
	transform.NopResetter

	n       *Normalizer
	runes   []rune
	offs    []int
	scratch []rune
}

// Transform implements transform.Transformer.
//
// Input ending in the middle of a possible match yields ErrShortSrc until
// atEOF, so matches spanning chunk boundaries are found. A single match
// sees at most maxLookahead bytes; one still open at that point is matched
// as if the input ended there.
func (t *transformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	t.n.mu.Lock()
	defer t.n.mu.Unlock()

	var complete bool
	t.runes, t.offs, complete = decode(t.runes[:0], t.offs[:0], src, atEOF)
	runes, offs, pf := t.runes, t.offs, t.n.pf
	eof := atEOF && complete

	k := 0
	for i := 0; i < len(runes); {
		if pf != nil {
			j := skipTo(offs, i, pf.Find(src, offs[i]))
			for ; i < j; i++ {
				if !fits(dst[nDst:], runes[i:i+1]) {
					return nDst, nSrc, transform.ErrShortDst
				}
				nDst += utf8.EncodeRune(dst[nDst:], runes[i])
				nSrc = offs[i+1]
			}
			if i == len(runes) {
				break
			}
		}
		var full bool
		k, full = window(offs, i, k)
		nIn, emitted, err := convertStep(t.n.a, runes[i:k], &t.scratch, eof && k == len(runes))
		if errors.Is(err, nfa.ErrOverrun) {
			if !full {
				return nDst, nSrc, transform.ErrShortSrc
			}
			// the pending match already spans maxLookahead bytes; end it
			// at the window boundary
			nIn, emitted, err = convertStep(t.n.a, runes[i:k], &t.scratch, true)
		}
		if err != nil {
			return nDst, nSrc, err
		}
		if !fits(dst[nDst:], emitted) {
			return nDst, nSrc, transform.ErrShortDst
		}
		for _, r := range emitted {
			nDst += utf8.EncodeRune(dst[nDst:], r)
		}
		i += nIn
		nSrc = offs[i]
	}
	if nSrc < len(src) {
		return nDst, nSrc, transform.ErrShortSrc
	}
	return nDst, nSrc, nil
}

// convertStep runs one conversion step, doubling *scratch while the
// matched rule's output does not fit. It returns the runes consumed and
// the runes emitted, which alias *scratch.
func convertStep(a *nfa.Automaton, in []rune, scratch *[]rune, eof bool) (int, []rune, error) {
	for {
		var nIn, nOut int
		var err error
		if eof {
			nIn, nOut, err = a.ConvertSliceEOF(in, *scratch)
		} else {
			nIn, nOut, err = a.ConvertSlice(in, *scratch)
		}
		if errors.Is(err, nfa.ErrNoSpace) && len(*scratch) < maxScratch {
			*scratch = make([]rune, 2*len(*scratch))
			continue
		}
		if err != nil {
			return 0, nil, err
		}
		return nIn, (*scratch)[:nOut], nil
	}
}

// decode appends the runes of src and their byte offsets, plus one final
// offset marking the end of the decoded bytes. Unless atEOF, a trailing
// incomplete sequence is left undecoded and complete is false.
func decode(runes []rune, offs []int, src []byte, atEOF bool) (_ []rune, _ []int, complete bool) {
	i := 0
	for i < len(src) {
		if !atEOF && !utf8.FullRune(src[i:]) {
			break
		}
		r, size := utf8.DecodeRune(src[i:])
		runes = append(runes, r)
		offs = append(offs, i)
		i += size
	}
	offs = append(offs, i)
	return runes, offs, i == len(src)
}

// window returns the end of the match window starting at rune i: the first
// rune boundary at least maxLookahead bytes past rune i, or the end of the
// decoded runes. The scan resumes from from, the previous window end. full
// reports that the window reached maxLookahead bytes.
func window(offs []int, i, from int) (k int, full bool) {
	last := len(offs) - 1
	k = max(from, i)
	for k < last && offs[k]-offs[i] < maxLookahead {
		k++
	}
	return k, offs[k]-offs[i] >= maxLookahead
}

// skipTo returns the index of the first rune at or after rune i whose byte
// offset is at least pos. A negative pos means no candidate remains.
func skipTo(offs []int, i, pos int) int {
	last := len(offs) - 1
	if pos < 0 {
		return last
	}
	for i < last && offs[i] < pos {
		i++
	}
	return i
}

func appendRunes(dst []byte, runes []rune) []byte {
	for _, r := range runes {
		dst = utf8.AppendRune(dst, r)
	}
	return dst
}

// fits reports whether the UTF-8 encoding of runes fits in dst.
func fits(dst []byte, runes []rune) bool {
	n := 0
	for _, r := range runes {
		size := utf8.RuneLen(r)
		if size < 0 {
			size = utf8.RuneLen(utf8.RuneError)
		}
		n += size
	}
	return n <= len(dst)
}

func prefilterName(pf prefilter.Prefilter) string {
	if pf == nil {
		return "none"
	}
	return fmt.Sprint(pf)
}
