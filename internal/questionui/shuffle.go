package questionui

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"

	"github.com/mind-engage/questionui/internal/xmltree"
)

// newRand returns the generator for one render call. It never touches the
// process-wide source, so concurrent renders cannot disturb each other.
func (d *Document) newRand() *rand.Rand {
	if d.seed != nil {
		return rand.New(rand.NewSource(*d.seed))
	}
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	return rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
}

// shuffleContents permutes the element children of every element marked
// qpy:shuffle-contents and numbers the qpy:shuffled-index markers inside each
// child after its new position. Containers are processed in document order
// with one generator.
func shuffleContents(st *renderState) error {
	containers, err := scan(st.root, cShuffleContents)
	if err != nil {
		return err
	}
	if len(containers) == 0 {
		return nil
	}
	if st.rng == nil {
		st.rng = st.doc.newRand()
	}

	for _, c := range containers {
		kids := c.ChildElements()
		st.rng.Shuffle(len(kids), func(i, j int) { kids[i], kids[j] = kids[j], kids[i] })
		c.Del(QPYNamespace, "shuffle-contents")
		placeInSlots(c, kids)

		for i, kid := range kids {
			if err := replaceShuffledIndices(st, kid, i+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// placeInSlots puts shuffled into the positions previously held by element
// children of parent. Text, comments and instructions keep their positions.
func placeInSlots(parent *xmltree.Node, shuffled []*xmltree.Node) {
	all := parent.Children()
	for _, n := range all {
		parent.RemoveChild(n)
	}
	next := 0
	for _, n := range all {
		if n.Type == xmltree.ElementNode {
			n = shuffled[next]
			next++
		}
		parent.AppendChild(n)
	}
}

func replaceShuffledIndices(st *renderState, el *xmltree.Node, index int) error {
	markers, err := scan(el, cShuffledIndex)
	if err != nil {
		return err
	}
	for _, m := range markers {
		format := m.GetOr("", "format", string(formatArabic))
		s, ok := formatIndex(index, indexFormat(format))
		if !ok {
			st.doc.log.Debug("unknown shuffled-index format, using 123", "format", format)
		}
		m.ReplaceWith(xmltree.NewText(s))
	}
	return nil
}
