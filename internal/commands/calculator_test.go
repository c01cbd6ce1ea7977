package commands

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_Arithmetic(t *testing.T) {
	pairs := [][2]float64{{1, 2}, {-3.5, 0.25}, {0.1, 0.2}, {1e300, 1e300}, {0, -0}}
	for _, p := range pairs {
		a, b := p[0], p[1]

		got, err := Calculate("add", a, b)
		require.NoError(t, err)
		assert.Equal(t, a+b, got)

		got, err = Calculate("subtract", a, b)
		require.NoError(t, err)
		assert.Equal(t, a-b, got)

		got, err = Calculate("multiply", a, b)
		require.NoError(t, err)
		assert.Equal(t, a*b, got)
	}
}

func TestCalculate_Divide(t *testing.T) {
	got, err := Calculate("divide", 7, 2)
	require.NoError(t, err)
	assert.Equal(t, 3.5, got)

	for _, a := range []float64{0, 1, -42.5, math.MaxFloat64} {
		_, err := Calculate("divide", a, 0)
		assert.ErrorIs(t, err, ErrDivisionByZero)
	}
}

func TestCalculate_NaNRejectedForEveryOperation(t *testing.T) {
	nan := math.NaN()
	for _, op := range []string{"add", "subtract", "multiply", "divide", "mod"} {
		_, err := Calculate(op, nan, 1)
		assert.ErrorIs(t, err, ErrInvalidNumber, op)

		_, err = Calculate(op, 1, nan)
		assert.ErrorIs(t, err, ErrInvalidNumber, op)

		// NaN 校验优先于 Inf
		_, err = Calculate(op, nan, math.Inf(1))
		assert.ErrorIs(t, err, ErrInvalidNumber, op)
	}
}

func TestCalculate_InfinityCheckedBeforeDispatch(t *testing.T) {
	inf := math.Inf(1)

	_, err := Calculate("divide", inf, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = Calculate("divide", 1, math.Inf(-1))
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = Calculate("mod", inf, 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestCalculate_UnsupportedOperationEchoesName(t *testing.T) {
	_, err := Calculate("mod", 1, 2)
	require.Error(t, err)

	var unsupported *UnsupportedOperationError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "mod", unsupported.Name)
	assert.Contains(t, err.Error(), "mod")
}

func TestParseOperation(t *testing.T) {
	for _, op := range []Operation{Add, Subtract, Multiply, Divide} {
		parsed, err := ParseOperation(op.String())
		require.NoError(t, err)
		assert.Equal(t, op, parsed)
	}

	_, err := ParseOperation("ADD")
	assert.Error(t, err)
}

func TestSafeDivide(t *testing.T) {
	got, err := SafeDivide(9, 3)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)

	_, err = SafeDivide(9, 0)
	assert.ErrorIs(t, err, ErrDivisionByZero)
	assert.Equal(t, "除数不能为零！", err.Error())
}
