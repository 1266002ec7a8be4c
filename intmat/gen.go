package intmat

import (
	"io"
	"math/big"
)

// RandomUniform returns a rows x cols matrix with entries drawn uniformly
// from [0, 2^bits) using the given source of random bytes.
func RandomUniform(prng io.Reader, rows, cols, bits int) *Matrix {
	m := NewMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.rows[i][j].Set(randBits(prng, bits))
		}
	}
	return m
}

// RandomKnapsack returns a d x (d+1) integer-relation basis: row i is the
// i-th unit vector prefixed with a uniform bits-bit weight. Short vectors
// of this lattice encode small relations among the weights.
func RandomKnapsack(prng io.Reader, d, bits int) *Matrix {
	m := NewMatrix(d, d+1)
	for i := 0; i < d; i++ {
		m.rows[i][0].Set(randBits(prng, bits))
		m.rows[i][i+1].SetInt64(1)
	}
	return m
}

func randBits(prng io.Reader, bits int) *big.Int {
	buf := make([]byte, (bits+7)/8)
	if _, err := io.ReadFull(prng, buf); err != nil {
		panic(err)
	}
	v := new(big.Int).SetBytes(buf)
	if r := uint(len(buf)*8 - bits); r > 0 {
		v.Rsh(v, r)
	}
	return v
}
