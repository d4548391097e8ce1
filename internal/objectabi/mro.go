package objectabi

import "fmt"

// c3Linearize computes the C3 superclass linearization of t's bases
// (spec §3 "Types may declare bases ... a precomputed C3-linearized MRO
// is stored on each type").
func c3Linearize(t *Type) ([]*Type, error) {
	if len(t.Bases) == 0 {
		return []*Type{t}, nil
	}

	sequences := make([][]*Type, 0, len(t.Bases)+1)
	for _, base := range t.Bases {
		baseMRO, err := c3Linearize(base)
		if err != nil {
			return nil, err
		}
		sequences = append(sequences, baseMRO)
	}
	sequences = append(sequences, append([]*Type{}, t.Bases...))

	merged, err := c3Merge(sequences)
	if err != nil {
		return nil, fmt.Errorf("type %s: %w", t.Name, err)
	}
	return append([]*Type{t}, merged...), nil
}

func c3Merge(sequences [][]*Type) ([]*Type, error) {
	var result []*Type
	seqs := make([][]*Type, len(sequences))
	for i, s := range sequences {
		seqs[i] = append([]*Type{}, s...)
	}

	for {
		seqs = dropEmpty(seqs)
		if len(seqs) == 0 {
			return result, nil
		}

		var candidate *Type
		for _, seq := range seqs {
			head := seq[0]
			if !appearsInTail(head, seqs) {
				candidate = head
				break
			}
		}
		if candidate == nil {
			return nil, fmt.Errorf("inconsistent hierarchy")
		}

		result = append(result, candidate)
		for i, seq := range seqs {
			if len(seq) > 0 && seq[0] == candidate {
				seqs[i] = seq[1:]
			}
		}
	}
}

func dropEmpty(seqs [][]*Type) [][]*Type {
	out := seqs[:0]
	for _, s := range seqs {
		if len(s) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func appearsInTail(t *Type, seqs [][]*Type) bool {
	for _, seq := range seqs {
		for _, elem := range seq[1:] {
			if elem == t {
				return true
			}
		}
	}
	return false
}
