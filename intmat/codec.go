package intmat

import (
	"fmt"
	"io"
	"math/big"
	"strings"
	"text/scanner"

	"github.com/pkg/errors"
)

// String serialises the matrix in the bracketed row format
// [[a b c][d e f]], one row per line.
func (m *Matrix) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, row := range m.rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteByte('[')
		for j, v := range row {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(v.String())
		}
		sb.WriteByte(']')
	}
	sb.WriteByte(']')
	return sb.String()
}

// Parse reads a matrix in the bracketed row format from r. Rows may be
// separated by any whitespace; all rows must have the same length.
func Parse(r io.Reader) (*Matrix, error) {
	var sc scanner.Scanner
	sc.Init(r)
	sc.Mode = scanner.ScanInts
	sc.Error = func(*scanner.Scanner, string) {}

	tok := sc.Scan()
	if tok != '[' {
		return nil, errors.New("intmat: expected '[' at start of matrix")
	}

	m := &Matrix{cols: -1}
	for {
		tok = sc.Scan()
		if tok == ']' {
			break
		}
		if tok != '[' {
			return nil, errors.Errorf("intmat: expected '[' at start of row, got %q", sc.TokenText())
		}
		row, err := parseRow(&sc)
		if err != nil {
			return nil, err
		}
		if m.cols >= 0 && len(row) != m.cols {
			return nil, errors.Errorf("intmat: row %d has %d entries, want %d", len(m.rows), len(row), m.cols)
		}
		m.cols = len(row)
		m.rows = append(m.rows, row)
	}
	if m.cols < 0 {
		m.cols = 0
	}
	return m, nil
}

// ParseString is Parse on an in-memory string.
func ParseString(s string) (*Matrix, error) {
	return Parse(strings.NewReader(s))
}

func parseRow(sc *scanner.Scanner) ([]*big.Int, error) {
	var row []*big.Int
	neg := false
	for {
		switch tok := sc.Scan(); tok {
		case ']':
			if neg {
				return nil, errors.New("intmat: dangling '-' in row")
			}
			return row, nil
		case '-':
			neg = true
		case scanner.Int:
			v, ok := new(big.Int).SetString(sc.TokenText(), 10)
			if !ok {
				return nil, errors.Errorf("intmat: invalid integer %q", sc.TokenText())
			}
			if neg {
				v.Neg(v)
				neg = false
			}
			row = append(row, v)
		case scanner.EOF:
			return nil, errors.New("intmat: unexpected end of input in row")
		default:
			return nil, errors.Errorf("intmat: unexpected token %q", sc.TokenText())
		}
	}
}

// WriteTo writes the serialised matrix followed by a newline.
func (m *Matrix) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintln(w, m.String())
	return int64(n), err
}
