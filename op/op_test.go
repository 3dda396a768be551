package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupBinary(t *testing.T) {
	tests := []struct {
		symbol string
		want   BinaryOpType
	}{
		{"+", Add},
		{"-", Subtract},
		{"*", Multiply},
		{"/", Divide},
		{"%", Modulo},
		{"**", Power},
		{"==", Equal},
		{"!=", NotEqual},
		{"===", StrictEqual},
		{"!==", StrictNotEqual},
		{"<", LessThan},
		{"<=", LessThanOrEqual},
		{">", GreaterThan},
		{">=", GreaterThanOrEqual},
		{"&&", And},
		{"||", Or},
		{"&", BitwiseAnd},
		{"|", BitwiseOr},
		{"^", Xor},
		{"<<", LShift},
		{">>", RShift},
		{">>>", URShift},
		{"in", In},
	}
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			got, ok := LookupBinary(tt.symbol)
			require.True(t, ok)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.symbol, got.String())
		})
	}
}

func TestMissingOperators(t *testing.T) {
	for _, sym := range []string{"instanceof", "??", "=", ""} {
		_, ok := LookupBinary(sym)
		require.False(t, ok, sym)
	}
	for _, sym := range []string{"void", "delete", "++"} {
		_, ok := LookupUnary(sym)
		require.False(t, ok, sym)
	}
}

func TestLookupUnary(t *testing.T) {
	for sym, want := range map[string]UnaryOpType{
		"+": Plus, "-": Negate, "~": BitwiseNot, "!": Not, "typeof": TypeOf,
	} {
		got, ok := LookupUnary(sym)
		require.True(t, ok)
		require.Equal(t, want, got)
		require.Equal(t, sym, got.String())
	}
}

func TestIsComparison(t *testing.T) {
	require.True(t, StrictEqual.IsComparison())
	require.True(t, GreaterThanOrEqual.IsComparison())
	require.False(t, Add.IsComparison())
	require.False(t, In.IsComparison())
}

func TestAssignmentOperator(t *testing.T) {
	require.Equal(t, "", AssignmentOperator("="))
	require.Equal(t, "+", AssignmentOperator("+="))
	require.Equal(t, ">>>", AssignmentOperator(">>>="))
	require.Equal(t, "&&", AssignmentOperator("&&="))
	require.Equal(t, "**", AssignmentOperator("**="))
}
