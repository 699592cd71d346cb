// Package producer implements the lazy, heterogeneous byte-source
// abstraction that response bodies and headers are built from: a
// Producer yields chunks of bytes on demand, possibly pushing further
// producers or nested sequences onto a per-connection queue instead of
// returning data directly, so arbitrarily deep compositions flatten
// into one flat stream without ever materializing it in full.
package producer

// FragmentKind classifies the shape of a value pulled from a Sequence.
type FragmentKind int

const (
	// FragmentBytes carries literal bytes to emit as-is.
	FragmentBytes FragmentKind = iota
	// FragmentSequence carries a nested lazy sequence, flattened
	// depth-first before the sequence that yielded it resumes.
	FragmentSequence
	// FragmentProducer carries a nested Producer, pulled to
	// exhaustion before the sequence that yielded it resumes.
	FragmentProducer
	// FragmentClose is the distinguished sentinel requesting the
	// connection be closed once the queue drains.
	FragmentClose
)

// Sequence is a pull-based iterator over Fragments: ok is false once
// the sequence is exhausted.
type Sequence func() (Fragment, bool)

// Fragment is one element pulled from a Sequence.
type Fragment struct {
	Kind     FragmentKind
	Bytes    []byte
	Sequence Sequence
	Producer Producer
}

// StringFragment builds a FragmentBytes fragment from Latin-1 text,
// matching the wire protocol's ASCII-only status lines, headers and
// error bodies.
func StringFragment(s string) Fragment {
	return Fragment{Kind: FragmentBytes, Bytes: encodeLatin1(s)}
}

// BytesFragment builds a FragmentBytes fragment from raw bytes.
func BytesFragment(b []byte) Fragment {
	return Fragment{Kind: FragmentBytes, Bytes: b}
}

// SequenceFragment builds a FragmentSequence fragment.
func SequenceFragment(seq Sequence) Fragment {
	return Fragment{Kind: FragmentSequence, Sequence: seq}
}

// ProducerFragment builds a FragmentProducer fragment.
func ProducerFragment(p Producer) Fragment {
	return Fragment{Kind: FragmentProducer, Producer: p}
}

// CloseFragment builds the FragmentClose sentinel.
func CloseFragment() Fragment {
	return Fragment{Kind: FragmentClose}
}

// Enqueuer is the subset of Queue a Producer needs to push further
// work: itself as a continuation, or children discovered while
// flattening a nested sequence. Taking it as an explicit parameter to
// More, rather than a back-pointer captured at construction, keeps a
// Producer from needing to know which queue it will eventually run on.
type Enqueuer interface {
	EnqueueFront(p Producer)
}

// Producer yields the next chunk of bytes to write, or pushes further
// producers onto q and returns nil/empty to mean "nothing from this
// call, but more is coming". An empty return with nothing pushed means
// true exhaustion: the producer is discarded and not asked again.
type Producer interface {
	More(q Enqueuer) []byte
}

func encodeLatin1(s string) []byte {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			r = '?'
		}
		b = append(b, byte(r))
	}
	return b
}
