package effect

import "math"

// Input names a bitmap supplied at execution time.
type Input int

const (
	BorderInput Input = iota
	MaskInput
)

// Node is an element of an effect expression tree.
type Node interface {
	isNode()
}

type Source struct {
	Input Input
}

type Blur struct {
	In                Node
	StandardDeviation float64
}

// ShadowNode blurs the alpha channel of its input and paints it black.
type ShadowNode struct {
	In                Node
	StandardDeviation float64
}

type Opacity struct {
	In    Node
	Value float64
}

type Translate struct {
	In   Node
	X, Y float64
}

// Composite draws its inputs source-over, first input at the bottom.
type Composite struct {
	Inputs []Node
}

// AlphaMask multiplies In by the alpha of Mask.
type AlphaMask struct {
	In   Node
	Mask Node
}

func (*Source) isNode()     {}
func (*Blur) isNode()       {}
func (*ShadowNode) isNode() {}
func (*Opacity) isNode()    {}
func (*Translate) isNode()  {}
func (*Composite) isNode()  {}
func (*AlphaMask) isNode()  {}

// Build reduces a descriptor list to an expression tree. Each descriptor
// becomes blur|shadow -> opacity -> translate; the results and the raw
// border feed a composite that is masked to the border region. With no
// descriptors the tree is the raw border.
func Build(descs []Descriptor) Node {
	border := &Source{Input: BorderInput}
	if len(descs) == 0 {
		return border
	}

	var layers []Node
	for _, d := range descs {
		var base Node
		switch d.Kind {
		case Shadow:
			base = &ShadowNode{In: border, StandardDeviation: d.StandardDeviation}
		default:
			base = &Blur{In: border, StandardDeviation: d.StandardDeviation}
		}
		for _, op := range splitOpacity(d.Opacity) {
			layers = append(layers, &Translate{
				In: &Opacity{In: base, Value: op},
				X:  d.Translation.X,
				Y:  d.Translation.Y,
			})
		}
	}
	layers = append(layers, border)

	return &AlphaMask{
		In:   &Composite{Inputs: layers},
		Mask: &Source{Input: MaskInput},
	}
}

// splitOpacity stacks floor(op) fully opaque copies plus the fractional
// remainder, so values above 1 intensify the effect.
func splitOpacity(op float64) []float64 {
	if op <= 0 || math.IsNaN(op) {
		return nil
	}
	if op <= 1 {
		return []float64{op}
	}
	whole := math.Floor(op)
	out := make([]float64, 0, int(whole)+1)
	for i := 0; i < int(whole); i++ {
		out = append(out, 1)
	}
	if frac := op - whole; frac > 1e-6 {
		out = append(out, frac)
	}
	return out
}
