package palette

import "math"

// NeuQuant colour quantizer after Anthony Dekker, "Kohonen neural networks
// for optimal colour quantization" (1994). The network is a ring of neurons
// initialised along the gray diagonal; each sampled pixel pulls its winning
// neuron and that neuron's neighbours toward it, with the learning rate and
// neighbourhood radius decaying over a fixed number of cycles. Sampling walks
// the pixels with a prime stride so the result only depends on the input.

const (
	nqChannels      = 4
	nqRadiusDec     = 30
	nqAlphaBiasBits = 10
	nqInitAlpha     = 1 << nqAlphaBiasBits
	nqGamma         = 1024.0
	nqBeta          = 1.0 / nqGamma
	nqBetaGamma     = nqBeta * nqGamma
	nqRadiusBits    = 6
	nqMaxCycles     = 100
)

// Four primes near 500; the first that does not divide the pixel count is
// used as the sampling stride.
var nqPrimes = [4]int{499, 491, 487, 503}

type neuron struct {
	r, g, b, a float64
}

type neuQuant struct {
	network   []neuron
	bias      []float64
	freq      []float64
	sampleFac int
}

// learnPalette trains a network of colors neurons on pix, a packed RGBA buffer,
// and returns the learned colours sorted by ascending green.
func learnPalette(pix []uint8, colors, sampleFac int) Palette {
	nq := &neuQuant{
		network:   make([]neuron, colors),
		bias:      make([]float64, colors),
		freq:      make([]float64, colors),
		sampleFac: sampleFac,
	}
	for i := range nq.network {
		v := float64(i) * 256 / float64(colors)
		a := 255.0
		if i < 16 {
			a = float64(i) * 16
		}
		nq.network[i] = neuron{v, v, v, a}
		nq.freq[i] = 1 / float64(colors)
	}

	nq.learn(pix)
	return nq.colorMap()
}

func (nq *neuQuant) learn(pix []uint8) {
	netSize := len(nq.network)
	initRadius := netSize / 8
	biasRadius := initRadius << nqRadiusBits
	alphaDec := 30 + (nq.sampleFac-1)/3
	pixels := len(pix) / nqChannels
	samples := pixels / nq.sampleFac

	cycles := netSize >> 1
	if cycles > nqMaxCycles {
		cycles = nqMaxCycles
	}
	delta := samples / cycles
	if delta == 0 {
		delta = 1
	}

	alpha := nqInitAlpha
	rad := biasRadius >> nqRadiusBits
	if rad <= 1 {
		rad = 0
	}

	step := nqPrimes[3]
	for _, p := range nqPrimes {
		if pixels%p != 0 {
			step = p
			break
		}
	}

	pos := 0
	for i := 0; i < samples; {
		o := pos * nqChannels
		px := neuron{float64(pix[o]), float64(pix[o+1]), float64(pix[o+2]), float64(pix[o+3])}

		j := nq.contest(px)
		a := float64(alpha) / nqInitAlpha
		nq.alterSingle(a, j, px)
		if rad > 0 {
			nq.alterNeighbours(a, rad, j, px)
		}

		pos += step
		for pos >= pixels {
			pos -= pixels
		}

		i++
		if i%delta == 0 {
			alpha -= alpha / alphaDec
			biasRadius -= biasRadius / nqRadiusDec
			rad = biasRadius >> nqRadiusBits
			if rad <= 1 {
				rad = 0
			}
		}
	}
}

// contest finds the neuron closest to px and returns the best neuron once
// frequency bias is applied, updating the bias terms on the way.
func (nq *neuQuant) contest(px neuron) int {
	bestDist, bestBiasDist := math.MaxFloat64, math.MaxFloat64
	bestPos, bestBiasPos := -1, -1

	for i := range nq.network {
		n := &nq.network[i]
		dist := math.Abs(n.b-px.b) + math.Abs(n.r-px.r)
		if dist < bestDist || dist < bestBiasDist+nq.bias[i] {
			dist += math.Abs(n.g-px.g) + math.Abs(n.a-px.a)
			if dist < bestDist {
				bestDist, bestPos = dist, i
			}
			if biasDist := dist - nq.bias[i]; biasDist < bestBiasDist {
				bestBiasDist, bestBiasPos = biasDist, i
			}
		}
		nq.freq[i] -= nqBeta * nq.freq[i]
		nq.bias[i] += nqBetaGamma * nq.freq[i]
	}

	nq.freq[bestPos] += nqBeta
	nq.bias[bestPos] -= nqBetaGamma
	return bestBiasPos
}

func (nq *neuQuant) alterSingle(alpha float64, i int, px neuron) {
	nq.network[i].pull(alpha, px)
}

func (nq *neuQuant) alterNeighbours(alpha float64, rad, i int, px neuron) {
	lo := max(i-rad, 0)
	hi := min(i+rad, len(nq.network))
	radSq := float64(rad) * float64(rad)

	j, k, q := i+1, i-1, 0
	for j < hi || k > lo {
		a := alpha * (radSq - float64(q*q)) / radSq
		q++
		if j < hi {
			nq.network[j].pull(a, px)
			j++
		}
		if k > lo {
			nq.network[k].pull(a, px)
			k--
		}
	}
}

func (n *neuron) pull(alpha float64, px neuron) {
	n.b -= alpha * (n.b - px.b)
	n.g -= alpha * (n.g - px.g)
	n.r -= alpha * (n.r - px.r)
	n.a -= alpha * (n.a - px.a)
}

// colorMap rounds the network to bytes and orders it by green with a
// selection sort, matching the classic index build.
func (nq *neuQuant) colorMap() Palette {
	p := make(Palette, len(nq.network))
	for i, n := range nq.network {
		p[i] = RGB{roundByte(n.r), roundByte(n.g), roundByte(n.b)}
	}

	for i := range p {
		small := i
		for j := i + 1; j < len(p); j++ {
			if p[j].G < p[small].G {
				small = j
			}
		}
		p[i], p[small] = p[small], p[i]
	}
	return p
}

func roundByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}
