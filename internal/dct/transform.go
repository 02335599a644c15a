package dct

import "math"

// Block is one 8×8 tile, indexed [row][col] in the sample domain and
// [row frequency][column frequency] in the coefficient domain.
type Block [BlockSize][BlockSize]float64

// basis[k][n] = α(k)·cos((2n+1)·k·π/16), the orthonormal DCT-II matrix.
var basis [BlockSize][BlockSize]float64

func init() {
	for k := 0; k < BlockSize; k++ {
		a := math.Sqrt(2.0 / BlockSize)
		if k == 0 {
			a = math.Sqrt(1.0 / BlockSize)
		}
		for n := 0; n < BlockSize; n++ {
			basis[k][n] = a * math.Cos(float64((2*n+1)*k)*math.Pi/(2*BlockSize))
		}
	}
}

// ForwardBlock transforms the samples in b and divides each coefficient
// by its step in q:
//
//	C(x,y) = α(x)α(y) Σu Σv s(u,v) cos((2u+1)xπ/16) cos((2v+1)yπ/16) / q[x][y]
//
// The double sum is evaluated as two separable passes.
func ForwardBlock(b *Block, q *QuantTable) Block {
	var tmp, out Block
	// Columns first: tmp[x][v] = Σu basis[x][u]·s(u,v).
	for x := 0; x < BlockSize; x++ {
		for v := 0; v < BlockSize; v++ {
			var sum float64
			for u := 0; u < BlockSize; u++ {
				sum += basis[x][u] * b[u][v]
			}
			tmp[x][v] = sum
		}
	}
	for x := 0; x < BlockSize; x++ {
		for y := 0; y < BlockSize; y++ {
			var sum float64
			for v := 0; v < BlockSize; v++ {
				sum += tmp[x][v] * basis[y][v]
			}
			out[x][y] = sum / float64(q[x][y])
		}
	}
	return out
}

// InverseBlock reconstructs samples from quantized coefficients c:
//
//	s(i,j) = Σu Σv α(u)α(v) C'(u,v) cos((2i+1)uπ/16) cos((2j+1)vπ/16)
//
// where C'(u,v) is c[u][v] for IndexNatural and c[v][u] for
// IndexTransposed. With DequantCoefficient the coefficient read is first
// multiplied by its own step; with DequantSample the finished s(i,j) is
// multiplied by q[i][j].
func InverseBlock(c *Block, q *QuantTable, order IndexOrder, dq DequantDomain) Block {
	var in Block
	for u := 0; u < BlockSize; u++ {
		for v := 0; v < BlockSize; v++ {
			x, y := u, v
			if order == IndexTransposed {
				x, y = v, u
			}
			val := c[x][y]
			if dq == DequantCoefficient {
				val *= float64(q[x][y])
			}
			in[u][v] = val
		}
	}

	var tmp, out Block
	// tmp[i][v] = Σu basis[u][i]·C'(u,v).
	for i := 0; i < BlockSize; i++ {
		for v := 0; v < BlockSize; v++ {
			var sum float64
			for u := 0; u < BlockSize; u++ {
				sum += basis[u][i] * in[u][v]
			}
			tmp[i][v] = sum
		}
	}
	for i := 0; i < BlockSize; i++ {
		for j := 0; j < BlockSize; j++ {
			var sum float64
			for v := 0; v < BlockSize; v++ {
				sum += tmp[i][v] * basis[v][j]
			}
			if dq == DequantSample {
				sum *= float64(q[i][j])
			}
			out[i][j] = sum
		}
	}
	return out
}

// roundBlock rounds every coefficient to the nearest integer.
func roundBlock(b *Block) {
	for x := range b {
		for y := range b[x] {
			b[x][y] = math.Round(b[x][y])
		}
	}
}
