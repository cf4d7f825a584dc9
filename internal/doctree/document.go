package doctree

import "iter"

// Document is an ordered sequence of blocks. It is not safe for concurrent
// use; callers serialize access to one document.
type Document struct {
	blocks []Block
}

func NewDocument() *Document {
	return &Document{}
}

// Insert places item right after the block identical to after, or at the
// end when after is nil or not in the document. Only paragraphs and
// figures can be inserted: a bare run, or any other non-block item, is
// rejected with false and the document is left unchanged. On success the
// document owns item.
func (d *Document) Insert(item Item, after Block) bool {
	b, ok := item.(Block)
	if !ok || b == nil {
		return false
	}
	d.blocks = insertAfter(d.blocks, b, after)
	return true
}

// Append is Insert at the end for a known block.
func (d *Document) Append(b Block) {
	d.blocks = append(d.blocks, b)
}

// Remove deletes the block identical to b and reports whether it was found.
func (d *Document) Remove(b Block) bool {
	for i, it := range d.blocks {
		if it == b {
			d.blocks = append(d.blocks[:i], d.blocks[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of blocks.
func (d *Document) Len() int { return len(d.blocks) }

// Block returns the block at i. It panics if i is out of range.
func (d *Document) Block(i int) Block { return d.blocks[i] }

// Blocks iterates over the blocks in insertion order. Each call starts a
// fresh traversal; mutating the document during one is undefined.
func (d *Document) Blocks() iter.Seq2[int, Block] {
	return func(yield func(int, Block) bool) {
		for i, b := range d.blocks {
			if !yield(i, b) {
				return
			}
		}
	}
}

// Walk dispatches every block to v in order and stops at the first error.
func (d *Document) Walk(v Visitor) error {
	for _, b := range d.blocks {
		if err := b.Accept(v); err != nil {
			return err
		}
	}
	return nil
}
