package value

import (
	"context"
	"fmt"
	"iter"
)

// Stream is a lazily produced array value. Its elements are pulled from the
// producer one at a time; the sequence is forward-only and not restartable,
// so a stream can be iterated or materialized exactly once.
type Stream struct {
	seq      iter.Seq2[Value, error]
	consumed bool
}

// NewStream wraps a producer sequence as an array value. The producer is
// invoked at most once.
func NewStream(seq iter.Seq2[Value, error]) *Stream {
	return &Stream{seq: seq}
}

func (s *Stream) Type() Type { return TypeArray }

func (s *Stream) Bool() bool { return false }

// Seq returns the underlying sequence. It fails with ErrStreamConsumed on
// the second and subsequent calls.
func (s *Stream) Seq() (iter.Seq2[Value, error], error) {
	if s.consumed {
		return nil, ErrStreamConsumed
	}
	s.consumed = true
	return s.seq, nil
}

// Materialize drains the stream into a fully realized slice, materializing
// each element in turn.
func (s *Stream) Materialize(ctx context.Context) (any, error) {
	seq, err := s.Seq()
	if err != nil {
		return nil, err
	}

	result := make([]any, 0)
	for element, err := range seq {
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := element.Materialize(ctx)
		if err != nil {
			return nil, err
		}
		result = append(result, data)
	}

	return result, nil
}

// Elements returns a one-shot sequence over an array value, whether eager
// or streamed. It fails for non-array values and for already consumed
// streams.
func Elements(v Value) (iter.Seq2[Value, error], error) {
	switch current := v.(type) {
	case *Stream:
		return current.Seq()
	case eager:
		if current.typ != TypeArray {
			return nil, fmt.Errorf("cannot iterate %s value", current.typ)
		}
		data := current.data.([]any)
		return func(yield func(Value, error) bool) {
			for _, element := range data {
				if !yield(FromAny(element), nil) {
					return
				}
			}
		}, nil
	default:
		return nil, fmt.Errorf("cannot iterate %s value", v.Type())
	}
}
