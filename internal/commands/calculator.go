// Package commands 实现前端可调用的无状态命令：计算器、数组统计、时间戳、系统信息。
package commands

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidNumber 操作数为 NaN
	ErrInvalidNumber = errors.New("输入的数字无效")
	// ErrOutOfRange 操作数为 ±Inf
	ErrOutOfRange = errors.New("输入的数字超出范围")
	// ErrDivisionByZero 除数为零
	ErrDivisionByZero = errors.New("除数不能为零！")
)

// UnsupportedOperationError 不支持的运算类型，Name 保留前端传入的原始名称
type UnsupportedOperationError struct {
	Name string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("不支持的运算类型: %s", e.Name)
}

// Operation 计算器运算类型
type Operation int

const (
	Add Operation = iota + 1
	Subtract
	Multiply
	Divide
)

var operationNames = map[Operation]string{
	Add:      "add",
	Subtract: "subtract",
	Multiply: "multiply",
	Divide:   "divide",
}

func (op Operation) String() string {
	if name, ok := operationNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Operation(%d)", int(op))
}

// ParseOperation 将前端的运算名称转换为 Operation
func ParseOperation(name string) (Operation, error) {
	switch name {
	case "add":
		return Add, nil
	case "subtract":
		return Subtract, nil
	case "multiply":
		return Multiply, nil
	case "divide":
		return Divide, nil
	}
	return 0, &UnsupportedOperationError{Name: name}
}

// validateOperands 校验操作数，NaN 优先于 Inf
func validateOperands(a, b float64) error {
	if math.IsNaN(a) || math.IsNaN(b) {
		return ErrInvalidNumber
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return ErrOutOfRange
	}
	return nil
}

// Calculate 计算器命令：先校验操作数，再按运算名称分发
func Calculate(operation string, a, b float64) (float64, error) {
	if err := validateOperands(a, b); err != nil {
		return 0, err
	}
	op, err := ParseOperation(operation)
	if err != nil {
		return 0, err
	}
	return Apply(op, a, b)
}

// Apply 执行一次运算。调用方需保证操作数已通过校验。
func Apply(op Operation, a, b float64) (float64, error) {
	switch op {
	case Add:
		return a + b, nil
	case Subtract:
		return a - b, nil
	case Multiply:
		return a * b, nil
	case Divide:
		return SafeDivide(a, b)
	}
	return 0, &UnsupportedOperationError{Name: op.String()}
}

// SafeDivide 安全除法：除数为零时返回错误而不是 Inf
func SafeDivide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a / b, nil
}
